// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-shamir.
//
// go-shamir is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-shamir/internal/config"
	"github.com/jeremyhahn/go-shamir/internal/service"
	"github.com/jeremyhahn/go-shamir/pkg/crypto/rand"
	"github.com/jeremyhahn/go-shamir/pkg/logging"
	"github.com/jeremyhahn/go-shamir/pkg/metrics"
	"github.com/jeremyhahn/go-shamir/pkg/shamir"
)

// boundFlags are the persistent flags resolved through viper, so each can
// also come from an SSS_ environment variable.
var boundFlags = []string{"config", "modulus", "entropy", "output", "verbose", "metrics"}

// App holds the state shared by the commands of one invocation.
type App struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	v   *viper.Viper
	cfg *config.Config
	log *logging.Logger
	rng rand.Resolver
	svc *service.Service
}

// NewApp creates an App reading from in and writing results to out and
// diagnostics to errOut.
func NewApp(in io.Reader, out, errOut io.Writer) *App {
	v := viper.New()
	v.SetEnvPrefix("SSS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("entropy", "SSS_ENTROPY_MODE")

	return &App{in: in, out: out, errOut: errOut, v: v}
}

// Command builds the sss command tree.
func (a *App) Command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sss",
		Short: "Shamir secret sharing over a prime field",
		Long: `sss splits a numeric secret into n shares so that any k of them
recover it and fewer than k reveal nothing about it.

Arithmetic is done modulo a prime, 2^127-1 unless --modulus says otherwise.
Random secrets and polynomial coefficients come from the configured entropy
source:
  - auto:     PKCS#11, then TPM 2.0, then software
  - software: crypto/rand
  - tpm2:     TPM 2.0 hardware RNG (requires the tpm2 build tag)
  - pkcs11:   HSM RNG (requires the pkcs11 build tag)`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
	}
	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (YAML)")
	pf.String("modulus", "", "field prime in decimal or 0x hex (default 2^127-1)")
	pf.String("entropy", "", "entropy source (auto, software, tpm2, pkcs11)")
	pf.StringP("output", "o", "text", "output format (text, json, table)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.Bool("metrics", false, "print collected metrics to stderr on exit")
	for _, name := range boundFlags {
		_ = a.v.BindPFlag(name, pf.Lookup(name))
	}

	rootCmd.AddCommand(a.newGenerateCmd())
	rootCmd.AddCommand(a.newSplitCmd())
	rootCmd.AddCommand(a.newRecoverCmd())
	rootCmd.AddCommand(a.newShellCmd())
	rootCmd.AddCommand(a.newHealthCmd())
	rootCmd.AddCommand(a.newVersionCmd())
	return rootCmd
}

// Run executes the command line args and releases the entropy source.
func (a *App) Run(args []string) error {
	rootCmd := a.Command()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	if a.cfg != nil && a.cfg.Metrics.Dump {
		if dumpErr := metrics.WriteText(a.errOut); dumpErr != nil && err == nil {
			err = dumpErr
		}
	}
	if closeErr := a.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// Close releases the entropy source if one was opened.
func (a *App) Close() error {
	if a.rng == nil {
		return nil
	}
	err := a.rng.Close()
	a.rng = nil
	return err
}

// Execute runs sss with the process arguments and returns the exit code.
func Execute() int {
	app := NewApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args[1:]); err != nil {
		handleError(app, err)
		return 1
	}
	return 0
}

// setup loads the configuration file, layers flags and environment on top,
// and configures logging and metrics.
func (a *App) setup() error {
	cfg, err := config.Load(a.v.GetString("config"))
	if err != nil {
		return err
	}

	if a.v.IsSet("modulus") {
		cfg.Field.Modulus = a.v.GetString("modulus")
	}
	if a.v.IsSet("entropy") {
		cfg.Entropy.Mode = a.v.GetString("entropy")
	}
	if a.v.IsSet("output") {
		cfg.Output = a.v.GetString("output")
	}
	if a.v.GetBool("verbose") {
		cfg.Logging.Level = "debug"
	}
	if a.v.GetBool("metrics") {
		cfg.Metrics.Dump = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	a.cfg = cfg
	a.log = logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: logging.Format(strings.ToLower(cfg.Logging.Format)),
		Writer: a.errOut,
	})
	return nil
}

// service opens the entropy source and builds the sharing service on first
// use, so commands that never draw randomness never touch hardware.
func (a *App) service() (*service.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	f, err := a.cfg.FieldValue()
	if err != nil {
		return nil, err
	}
	rng, err := rand.NewResolver(a.cfg.RNGConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open entropy source: %w", err)
	}
	a.printVerbose("entropy source: %s, field: %d bits", rng.Mode(), f.Bits())

	a.rng = rng
	a.svc = service.New(&service.Config{
		Scheme: shamir.New(&shamir.Config{Field: f, Rand: rng}),
		Logger: a.log,
	})
	return a.svc, nil
}

// outputFormat returns the resolved output format, falling back to the flag
// value when setup never ran.
func (a *App) outputFormat() string {
	if a.cfg != nil {
		return strings.ToLower(a.cfg.Output)
	}
	if f := a.v.GetString("output"); f != "" {
		return f
	}
	return string(OutputFormatText)
}

func (a *App) printer() *Printer {
	return NewPrinter(a.outputFormat(), a.out)
}

// handleError prints an error to the diagnostic stream
func handleError(a *App, err error) {
	printer := NewPrinter(a.outputFormat(), a.errOut)
	_ = printer.PrintError(err) // Error printing is best-effort
}

// printVerbose prints a message if verbose mode is enabled
func (a *App) printVerbose(format string, args ...interface{}) {
	if a.v.GetBool("verbose") {
		fmt.Fprintf(a.errOut, "[VERBOSE] "+format+"\n", args...)
	}
}
