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
	"fmt"
	"math/big"

	"github.com/jeremyhahn/go-shamir/pkg/field"
)

// Recover returns the secret encoded by shares: the Lagrange interpolation
// of the shares evaluated at x = 0.
//
// Every supplied share takes part in the interpolation. The result does not
// depend on their order. Recover cannot know the threshold the shares were
// created with: given at least two but fewer than k genuine shares it
// returns a wrong value without an error, and corrupted shares are accepted
// without detection.
func Recover(f *field.Field, shares []Share) (*big.Int, error) {
	if len(shares) < 2 {
		return nil, fmt.Errorf("%w: need at least 2, got %d", ErrInsufficientShares, len(shares))
	}
	return InterpolateAt(f, shares, new(big.Int))
}

// InterpolateAt evaluates, at x, the unique polynomial of degree
// len(shares)-1 passing through every share:
//
//	sum_i y_i * prod_{j != i} (x - x_j) / (x_i - x_j)   mod p
//
// It fails with ErrUndefinedInverse when two shares have the same x
// coordinate mod p. A nil field selects field.Default().
func InterpolateAt(f *field.Field, shares []Share, x *big.Int) (*big.Int, error) {
	if f == nil {
		f = field.Default()
	}
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no shares", ErrInsufficientShares)
	}

	xs := make([]*big.Int, len(shares))
	seen := make(map[string]int, len(shares))
	for i, share := range shares {
		if err := share.Validate(); err != nil {
			return nil, fmt.Errorf("share %d: %w", i, err)
		}
		xs[i] = f.Reduce(share.X)
		key := xs[i].String()
		if j, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: shares %d and %d both have x = %s", ErrUndefinedInverse, j, i, key)
		}
		seen[key] = i
	}

	result := new(big.Int)
	for i, share := range shares {
		numerator := big.NewInt(1)
		denominator := big.NewInt(1)
		for j := range shares {
			if i == j {
				continue
			}
			numerator = f.Mul(numerator, f.Sub(x, xs[j]))
			denominator = f.Mul(denominator, f.Sub(xs[i], xs[j]))
		}

		inv, err := f.Inverse(denominator)
		if err != nil {
			return nil, fmt.Errorf("lagrange basis %d: %w", i, err)
		}
		basis := f.Mul(numerator, inv)
		result = f.Add(result, f.Mul(share.Y, basis))
	}
	return result, nil
}
