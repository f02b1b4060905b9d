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

package shamir

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/jeremyhahn/go-shamir/pkg/field"
	"github.com/jeremyhahn/go-shamir/pkg/polynomial"
)

var ten = big.NewInt(10)

// Config configures a Scheme.
type Config struct {
	// Field is the prime field all arithmetic runs in.
	// Defaults to field.Default() (p = 2^127 - 1) when nil.
	Field *field.Field

	// Rand is the entropy source for secrets and coefficients. It must be
	// cryptographically secure. Defaults to crypto/rand.Reader when nil.
	Rand io.Reader
}

// Scheme splits secrets into shares and recovers them. It holds no state
// between calls and is safe for concurrent use when its reader is.
type Scheme struct {
	field *field.Field
	rand  io.Reader
}

// New creates a Scheme. A nil config selects the defaults.
func New(config *Config) *Scheme {
	s := &Scheme{
		field: field.Default(),
		rand:  rand.Reader,
	}
	if config == nil {
		return s
	}
	if config.Field != nil {
		s.field = config.Field
	}
	if config.Rand != nil {
		s.rand = config.Rand
	}
	return s
}

// Field returns the field the scheme operates in.
func (s *Scheme) Field() *field.Field {
	return s.field
}

// MaxSecretDigits returns the largest decimal digit length accepted by
// GenerateAndSplit. Every secret of that length is below p.
func (s *Scheme) MaxSecretDigits() int {
	return s.field.Digits() - 1
}

// GenerateAndSplit draws a secret uniformly from
// [10^(digits-1), 10^digits - 1] and splits it into n shares, any k of
// which recover it. The secret is returned alongside the shares.
func (s *Scheme) GenerateAndSplit(n, digits, k int) (*big.Int, []Share, error) {
	if err := s.validateThreshold(n, k); err != nil {
		return nil, nil, err
	}
	if digits < 1 || digits > s.MaxSecretDigits() {
		return nil, nil, fmt.Errorf("%w: digit length %d outside [1, %d] for a %d-bit field",
			ErrInvalidSecret, digits, s.MaxSecretDigits(), s.field.Bits())
	}

	low := new(big.Int).Exp(ten, big.NewInt(int64(digits-1)), nil)
	span := new(big.Int).Mul(low, big.NewInt(9))
	offset, err := rand.Int(s.rand, span)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	secret := offset.Add(offset, low)

	shares, err := s.split(secret, n, k)
	if err != nil {
		return nil, nil, err
	}
	return secret, shares, nil
}

// SplitExistingSecret splits secret into n shares, any k of which recover
// it. The secret must satisfy 0 <= secret < p.
func (s *Scheme) SplitExistingSecret(secret *big.Int, n, k int) ([]Share, error) {
	if err := s.validateThreshold(n, k); err != nil {
		return nil, err
	}
	if secret == nil {
		return nil, fmt.Errorf("%w: secret is nil", ErrInvalidSecret)
	}
	if !s.field.Contains(secret) {
		return nil, fmt.Errorf("%w: secret must be in [0, p) for a %d-bit field",
			ErrInvalidSecret, s.field.Bits())
	}
	return s.split(secret, n, k)
}

// RecoverSecret interpolates the shares at x = 0. See Recover.
func (s *Scheme) RecoverSecret(shares []Share) (*big.Int, error) {
	return Recover(s.field, shares)
}

func (s *Scheme) validateThreshold(n, k int) error {
	switch {
	case n < 1:
		return fmt.Errorf("%w: total shares must be at least 1, got %d", ErrInvalidThreshold, n)
	case k < 1:
		return fmt.Errorf("%w: threshold must be at least 1, got %d", ErrInvalidThreshold, k)
	case k > n:
		return fmt.Errorf("%w: threshold (%d) must be <= total shares (%d)", ErrInvalidThreshold, k, n)
	case big.NewInt(int64(n)).Cmp(s.field.Modulus()) >= 0:
		return fmt.Errorf("%w: total shares (%d) must be below the field modulus", ErrInvalidThreshold, n)
	}
	return nil
}

// split builds a random degree k-1 polynomial with the secret as its
// constant term and evaluates it at 1..n. The polynomial is wiped before
// returning.
func (s *Scheme) split(secret *big.Int, n, k int) ([]Share, error) {
	poly, err := polynomial.Random(s.field, secret, k-1, s.rand)
	if err != nil {
		return nil, err
	}
	defer poly.Zero()

	return evaluateShares(poly, n), nil
}

func evaluateShares(poly *polynomial.Polynomial, n int) []Share {
	shares := make([]Share, n)
	for i := range shares {
		x := big.NewInt(int64(i + 1))
		shares[i] = Share{X: x, Y: poly.Evaluate(x)}
	}
	return shares
}
