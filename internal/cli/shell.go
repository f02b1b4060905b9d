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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-shamir/internal/service"
	"github.com/jeremyhahn/go-shamir/pkg/logging"
	"github.com/jeremyhahn/go-shamir/pkg/shamir"
)

const shellMenu = `
Choose a mode:
1. Generate and split a secret
2. Split an existing secret
3. Recover a secret from shares
4. Exit
`

// maxShellShares bounds how many shares the recover prompt will read.
const maxShellShares = 1024

// errEOF ends the shell when input runs out mid-prompt.
var errEOF = errors.New("end of input")

func (a *App) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive menu for generating, splitting and recovering secrets",
		Long: `Start an interactive menu on stdin/stdout. Each action prompts for
its parameters; a failed action prints the error and returns to the menu.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			sh := &shell{
				ctx:     cmd.Context(),
				svc:     svc,
				scanner: bufio.NewScanner(a.in),
				out:     a.out,
				log:     a.log,
			}
			return sh.run()
		},
	}
}

// shell is one interactive session.
type shell struct {
	ctx     context.Context
	svc     *service.Service
	scanner *bufio.Scanner
	out     io.Writer
	log     *logging.Logger
}

func (s *shell) run() error {
	for {
		fmt.Fprint(s.out, shellMenu)
		choice, err := s.prompt("\nYour choice (1-4): ")
		if errors.Is(err, errEOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.generate()
		case "2":
			err = s.split()
		case "3":
			err = s.recover()
		case "4":
			fmt.Fprintln(s.out, "Exiting.")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice. Try again.")
			continue
		}

		if errors.Is(err, errEOF) {
			return nil
		}
		if err != nil {
			s.log.Debug("shell action failed", "choice", choice, "error", err)
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *shell) generate() error {
	n, err := s.promptInt("Number of shares: ")
	if err != nil {
		return err
	}
	digits, err := s.promptInt("Secret length (digits): ")
	if err != nil {
		return err
	}
	k, err := s.promptInt("Recovery threshold (shares needed to recover): ")
	if err != nil {
		return err
	}

	secret, set, err := s.svc.Generate(s.ctx, digits, n, k)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "\nGenerated secret: %s\n", secret)
	s.printShares(set)
	return nil
}

func (s *shell) split() error {
	secret, err := s.promptBig("Enter the secret (integer): ")
	if err != nil {
		return err
	}
	n, err := s.promptInt("Number of shares: ")
	if err != nil {
		return err
	}
	k, err := s.promptInt("Recovery threshold (shares needed to recover): ")
	if err != nil {
		return err
	}

	set, err := s.svc.Split(s.ctx, secret, n, k)
	if err != nil {
		return err
	}
	s.printShares(set)
	return nil
}

func (s *shell) recover() error {
	count, err := s.promptInt("How many shares will you enter: ")
	if err != nil {
		return err
	}
	if count < 0 || count > maxShellShares {
		return fmt.Errorf("share count must be between 0 and %d, got %d", maxShellShares, count)
	}

	var shares []shamir.Share
	for i := 1; i <= count; i++ {
		fmt.Fprintf(s.out, "\nShare %d:\n", i)
		x, err := s.promptBig("x: ")
		if err != nil {
			return err
		}
		y, err := s.promptBig("y: ")
		if err != nil {
			return err
		}
		shares = append(shares, shamir.Share{X: x, Y: y})
	}

	secret, err := s.svc.Recover(s.ctx, shares)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "\nRecovered secret: %s\n", secret)
	return nil
}

func (s *shell) printShares(set *shamir.ShareSet) {
	fmt.Fprintf(s.out, "\nShares (total %d, %d required to recover):\n", set.Total, set.Threshold)
	for i, share := range set.Shares {
		fmt.Fprintf(s.out, "Share %d: x=%s, y=%s\n", i+1, share.X, share.Y)
	}
}

func (s *shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(s.out)
		return "", errEOF
	}
	return strings.TrimSpace(s.scanner.Text()), nil
}

func (s *shell) promptInt(label string) (int, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	return v, nil
}

func (s *shell) promptBig(label string) (*big.Int, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return nil, fmt.Errorf("%q is not an integer", raw)
	}
	return v, nil
}
