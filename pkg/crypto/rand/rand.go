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

// Package rand provides the entropy sources used to draw secrets and
// polynomial coefficients.
//
// Every Resolver implements io.Reader, so it can be injected directly as
// shamir.Config.Rand.
//
// # RNG Sources
//
//   - Auto: PKCS#11 if compiled and reachable, then TPM2, then software
//   - Software: crypto/rand
//   - TPM2: TPM2_GetRandom on a TPM 2.0 device or simulator (build tag tpm2)
//   - PKCS11: C_GenerateRandom on an HSM slot (build tag pkcs11)
//
// Without the build tags the hardware modes report "not compiled" and auto
// mode resolves to software.
//
//	rng, err := rand.NewResolver(&rand.Config{
//	    Mode:         rand.ModeTPM2,
//	    FallbackMode: rand.ModeSoftware,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rng.Close()
//
//	scheme := shamir.New(&shamir.Config{Rand: rng})
//
// # Thread Safety
//
// All Resolver implementations are safe for concurrent use.
package rand

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Mode specifies which RNG source to use.
type Mode string

const (
	// ModeAuto selects the best available RNG.
	// Preference order: PKCS#11 > TPM2 > Software
	ModeAuto Mode = "auto"

	// ModeSoftware uses crypto/rand
	ModeSoftware Mode = "software"

	// ModeTPM2 uses Trusted Platform Module 2.0 hardware RNG
	ModeTPM2 Mode = "tpm2"

	// ModePKCS11 uses PKCS#11 hardware security module RNG
	ModePKCS11 Mode = "pkcs11"
)

// ParseMode converts a configuration string into a Mode. The empty string
// is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeSoftware, ModeTPM2, ModePKCS11:
		return m, nil
	default:
		return "", fmt.Errorf("unknown RNG mode: %s", s)
	}
}

// Config contains RNG configuration.
type Config struct {
	// Mode specifies the primary RNG source to use.
	// Defaults to ModeAuto if not specified.
	Mode Mode

	// FallbackMode specifies the RNG source to use if the primary source
	// fails a read. If not specified, failures are returned as errors.
	FallbackMode Mode

	// TPM2Config contains TPM2-specific configuration (if Mode=ModeTPM2).
	TPM2Config *TPM2Config

	// PKCS11Config contains PKCS#11-specific configuration (if Mode=ModePKCS11).
	PKCS11Config *PKCS11Config
}

const (
	// DefaultTPM2RequestSize is the TPM2_GetRandom request size used when
	// none is configured.
	DefaultTPM2RequestSize = 32

	// MaxTPM2RequestSize is the largest count a TPM2_GetRandom command can
	// carry in its UINT16 bytesRequested field.
	MaxTPM2RequestSize = 1<<16 - 1
)

// tpm2RequestSize clamps a configured request size into
// [1, MaxTPM2RequestSize], substituting the default for n <= 0.
func tpm2RequestSize(n int) int {
	switch {
	case n <= 0:
		return DefaultTPM2RequestSize
	case n > MaxTPM2RequestSize:
		return MaxTPM2RequestSize
	}
	return n
}

// TPM2Config contains configuration for TPM2 RNG.
type TPM2Config struct {
	// Device path to the TPM device (default: "/dev/tpmrm0").
	// Ignored when UseSimulator is true.
	Device string

	// MaxRequestSize limits the bytes requested per TPM2_GetRandom call.
	// Default: 32. Values above MaxTPM2RequestSize are clamped.
	MaxRequestSize int

	// UseSimulator connects to a TPM simulator over TCP instead of a device.
	UseSimulator bool

	// SimulatorHost is the simulator hostname. Default: "localhost"
	SimulatorHost string

	// SimulatorPort is the simulator command port; the platform port is
	// SimulatorPort+1. Default: 2321
	SimulatorPort int
}

// PKCS11Config contains configuration for PKCS#11 RNG.
type PKCS11Config struct {
	// Module path to the PKCS#11 library (e.g., /usr/lib/softhsm/libsofthsm2.so)
	Module string

	// SlotID specifies the PKCS#11 slot containing the RNG
	SlotID uint

	// PIN is the user PIN. Login is skipped when empty.
	PIN string
}

// Resolver is a source of cryptographically secure random bytes.
//
// Resolver implements io.Reader, making it usable anywhere crypto/rand.Reader
// is, including crypto/rand.Int which the secret sharing scheme uses to draw
// field elements.
type Resolver interface {
	// Rand returns n random bytes.
	Rand(n int) ([]byte, error)

	// Read fills p with random bytes. It returns len(p) or an error.
	Read(p []byte) (n int, err error)

	// Mode reports which source is serving reads.
	Mode() Mode

	// Available returns true if the source is ready.
	Available() bool

	// Close releases any device handles.
	Close() error
}

// NewResolver creates a resolver for the given configuration. A nil config
// selects auto mode.
//
// Returns an error if the requested mode is unknown, or if an explicitly
// requested hardware mode cannot be opened and no fallback is configured.
func NewResolver(cfg *Config) (Resolver, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	mode := cfg.Mode
	if mode == "" {
		mode = ModeAuto
	}

	var (
		primary Resolver
		err     error
	)
	switch mode {
	case ModeAuto:
		primary = newAutoResolver(cfg)
	case ModeSoftware:
		primary = newSoftwareResolver()
	case ModeTPM2:
		primary, err = newTPM2Resolver(cfg.TPM2Config)
	case ModePKCS11:
		primary, err = newPKCS11Resolver(cfg.PKCS11Config)
	default:
		return nil, fmt.Errorf("unknown RNG mode: %s", mode)
	}

	if cfg.FallbackMode == "" || cfg.FallbackMode == mode {
		return primary, err
	}

	fallback, fbErr := NewResolver(&Config{
		Mode:         cfg.FallbackMode,
		TPM2Config:   cfg.TPM2Config,
		PKCS11Config: cfg.PKCS11Config,
	})
	if err != nil {
		// The primary could not be opened at all; serve from the fallback.
		if fbErr != nil {
			return nil, fmt.Errorf("%w (fallback %s: %v)", err, cfg.FallbackMode, fbErr)
		}
		return fallback, nil
	}
	if fbErr != nil {
		return primary, nil
	}
	return &fallbackResolver{primary: primary, fallback: fallback}, nil
}

// fillFrom reads len(p) bytes from r.Rand into p.
func fillFrom(r interface{ Rand(int) ([]byte, error) }, p []byte) (int, error) {
	data, err := r.Rand(len(p))
	if err != nil {
		return 0, err
	}
	if len(data) != len(p) {
		return 0, fmt.Errorf("short random read: got %d of %d bytes", len(data), len(p))
	}
	return copy(p, data), nil
}

// softwareResolver uses crypto/rand from the Go standard library.
type softwareResolver struct{}

var _ Resolver = (*softwareResolver)(nil)

func newSoftwareResolver() Resolver {
	return &softwareResolver{}
}

func (s *softwareResolver) Rand(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *softwareResolver) Read(p []byte) (int, error) {
	return rand.Read(p)
}

func (s *softwareResolver) Mode() Mode {
	return ModeSoftware
}

func (s *softwareResolver) Available() bool {
	return true
}

func (s *softwareResolver) Close() error {
	return nil
}
