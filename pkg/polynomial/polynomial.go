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

// Package polynomial evaluates polynomials over a prime field.
package polynomial

import (
	"fmt"
	"io"
	"math/big"

	"github.com/jeremyhahn/go-shamir/pkg/field"
)

// Evaluate returns sum(coeffs[i] * x^i) mod p using Horner's method, scanning
// from the highest degree coefficient down to the constant term so every
// intermediate value stays below p. An empty coefficient list evaluates to 0.
func Evaluate(f *field.Field, coeffs []*big.Int, x *big.Int) *big.Int {
	y := new(big.Int)
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = f.Add(f.Mul(y, x), coeffs[i])
	}
	return y
}

// Polynomial is a polynomial over a prime field, stored by its coefficients
// in ascending degree order. coeffs[0] is the constant term.
type Polynomial struct {
	field  *field.Field
	coeffs []*big.Int
}

// New creates a polynomial from the given coefficients. The coefficients are
// reduced into the field and copied.
func New(f *field.Field, coeffs []*big.Int) *Polynomial {
	c := make([]*big.Int, len(coeffs))
	for i, v := range coeffs {
		c[i] = f.Reduce(v)
	}
	return &Polynomial{field: f, coeffs: c}
}

// Random creates a polynomial with the given constant term followed by
// degree coefficients drawn uniformly from [1, p-1].
func Random(f *field.Field, constant *big.Int, degree int, r io.Reader) (*Polynomial, error) {
	if degree < 0 {
		return nil, fmt.Errorf("polynomial: negative degree %d", degree)
	}

	coeffs := make([]*big.Int, degree+1)
	coeffs[0] = f.Reduce(constant)
	for i := 1; i <= degree; i++ {
		c, err := f.RandomNonZero(r)
		if err != nil {
			return nil, fmt.Errorf("failed to generate coefficient %d: %w", i, err)
		}
		coeffs[i] = c
	}
	return &Polynomial{field: f, coeffs: coeffs}, nil
}

// Evaluate returns the value of the polynomial at x.
func (p *Polynomial) Evaluate(x *big.Int) *big.Int {
	return Evaluate(p.field, p.coeffs, x)
}

// Degree returns the number of coefficients minus one. A polynomial with no
// coefficients has degree -1.
func (p *Polynomial) Degree() int {
	return len(p.coeffs) - 1
}

// Zero overwrites the words backing every coefficient and drops them. The
// polynomial evaluates to 0 afterwards.
func (p *Polynomial) Zero() {
	for _, c := range p.coeffs {
		words := c.Bits()
		for i := range words {
			words[i] = 0
		}
		c.SetInt64(0)
	}
	p.coeffs = nil
}
