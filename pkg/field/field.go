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

// Package field implements arithmetic in the prime field GF(p) used by the
// secret sharing scheme.
//
// Every operation reduces its result into [0, p-1]. Elements are represented
// as *big.Int values and are never mutated by this package; each operation
// allocates a new result.
//
// The arithmetic is built on math/big and is not constant time. It must not
// be relied upon where timing side channels are part of the threat model.
package field

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// primalityRounds is the number of Miller-Rabin rounds used to validate a
// caller supplied modulus (in addition to the Baillie-PSW test math/big
// always runs).
const primalityRounds = 32

var (
	// ErrUndefinedInverse is returned when the inverse of an element
	// congruent to zero is requested.
	ErrUndefinedInverse = errors.New("field: inverse of zero is undefined")

	// ErrInvalidModulus is returned when a field is constructed from a
	// value that is not an odd prime.
	ErrInvalidModulus = errors.New("field: modulus must be an odd prime")

	// mersenne127 is 2^127 - 1.
	mersenne127 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

	defaultField = &Field{
		p:      mersenne127,
		pMinus: new(big.Int).Sub(mersenne127, big.NewInt(1)),
		pExp:   new(big.Int).Sub(mersenne127, big.NewInt(2)),
	}
)

// Field is the prime field GF(p). A Field is immutable and safe for
// concurrent use.
type Field struct {
	p      *big.Int
	pMinus *big.Int // p - 1
	pExp   *big.Int // p - 2, the Fermat inverse exponent
}

// New creates a field for the prime modulus p. The modulus is copied.
func New(p *big.Int) (*Field, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: modulus is nil", ErrInvalidModulus)
	}
	if p.Cmp(big.NewInt(3)) < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidModulus, p)
	}
	if !p.ProbablyPrime(primalityRounds) {
		return nil, fmt.Errorf("%w: %s is composite", ErrInvalidModulus, p)
	}
	mod := new(big.Int).Set(p)
	return &Field{
		p:      mod,
		pMinus: new(big.Int).Sub(mod, big.NewInt(1)),
		pExp:   new(big.Int).Sub(mod, big.NewInt(2)),
	}, nil
}

// Default returns the field over the Mersenne prime 2^127 - 1.
func Default() *Field {
	return defaultField
}

// Parse parses a modulus written in decimal, or in hex with a 0x prefix, and
// builds the field for it. An empty string selects the default field.
func Parse(s string) (*Field, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default(), nil
	}
	p, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse %q", ErrInvalidModulus, s)
	}
	return New(p)
}

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

// Bits returns the bit length of p.
func (f *Field) Bits() int {
	return f.p.BitLen()
}

// Digits returns the number of decimal digits of p.
func (f *Field) Digits() int {
	return len(f.p.String())
}

// Contains reports whether a is a canonical element, 0 <= a < p.
func (f *Field) Contains(a *big.Int) bool {
	return a != nil && a.Sign() >= 0 && a.Cmp(f.p) < 0
}

// Reduce returns a mod p in [0, p-1], also for negative a.
func (f *Field) Reduce(a *big.Int) *big.Int {
	// big.Int.Mod is Euclidean, the result is never negative.
	return new(big.Int).Mod(a, f.p)
}

// Add returns (a + b) mod p.
func (f *Field) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, f.p)
}

// Sub returns (a - b) mod p, computed as a + Neg(b).
func (f *Field) Sub(a, b *big.Int) *big.Int {
	return f.Add(a, f.Neg(b))
}

// Mul returns (a * b) mod p.
func (f *Field) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, f.p)
}

// Neg returns -a mod p.
func (f *Field) Neg(a *big.Int) *big.Int {
	r := new(big.Int).Neg(a)
	return r.Mod(r, f.p)
}

// Inverse returns the unique b with a*b = 1 mod p, computed as a^(p-2) mod p
// (Fermat's little theorem). It fails with ErrUndefinedInverse when a is
// congruent to zero.
func (f *Field) Inverse(a *big.Int) (*big.Int, error) {
	r := f.Reduce(a)
	if r.Sign() == 0 {
		return nil, ErrUndefinedInverse
	}
	return r.Exp(r, f.pExp, f.p), nil
}

// Random returns a uniformly distributed element of [0, p-1] read from r.
// A nil reader selects crypto/rand.Reader.
func (f *Field) Random(r io.Reader) (*big.Int, error) {
	if r == nil {
		r = rand.Reader
	}
	n, err := rand.Int(r, f.p)
	if err != nil {
		return nil, fmt.Errorf("field: failed to read random element: %w", err)
	}
	return n, nil
}

// RandomNonZero returns a uniformly distributed element of [1, p-1] read
// from r. A nil reader selects crypto/rand.Reader.
func (f *Field) RandomNonZero(r io.Reader) (*big.Int, error) {
	if r == nil {
		r = rand.Reader
	}
	n, err := rand.Int(r, f.pMinus)
	if err != nil {
		return nil, fmt.Errorf("field: failed to read random element: %w", err)
	}
	return n.Add(n, big.NewInt(1)), nil
}
