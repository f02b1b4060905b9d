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

package health

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/jeremyhahn/go-shamir/pkg/crypto/rand"
	"github.com/jeremyhahn/go-shamir/pkg/field"
	"github.com/jeremyhahn/go-shamir/pkg/shamir"
)

const entropySampleSize = 64

// EntropyCheck reads a sample from r. A failed read or an all-zero sample is
// unhealthy; a source serving from another mode than requested is degraded.
func EntropyCheck(r rand.Resolver, requested rand.Mode) CheckFunc {
	return func(ctx context.Context) CheckResult {
		result := CheckResult{Name: "entropy"}
		sample, err := r.Rand(entropySampleSize)
		if err != nil {
			result.Status = StatusUnhealthy
			result.Error = err.Error()
			return result
		}
		if bytes.Equal(sample, make([]byte, len(sample))) {
			result.Status = StatusUnhealthy
			result.Error = "entropy source returned only zero bytes"
			return result
		}

		result.Status = StatusHealthy
		result.Message = fmt.Sprintf("%s source", r.Mode())
		if requested != "" && requested != rand.ModeAuto && r.Mode() != requested {
			result.Status = StatusDegraded
			result.Message = fmt.Sprintf("%s requested, serving from %s", requested, r.Mode())
		}
		return result
	}
}

// FieldCheck confirms the modulus is still prime.
func FieldCheck(f *field.Field) CheckFunc {
	return func(ctx context.Context) CheckResult {
		result := CheckResult{Name: "field"}
		if _, err := field.New(f.Modulus()); err != nil {
			result.Status = StatusUnhealthy
			result.Error = err.Error()
			return result
		}
		result.Status = StatusHealthy
		result.Message = fmt.Sprintf("%d-bit prime modulus", f.Bits())
		return result
	}
}

// RoundTripCheck splits a random field element 3 ways with threshold 2 and
// recovers it from every pair of shares.
func RoundTripCheck(scheme *shamir.Scheme, r rand.Resolver) CheckFunc {
	return func(ctx context.Context) CheckResult {
		result := CheckResult{Name: "round_trip"}
		fail := func(err error) CheckResult {
			result.Status = StatusUnhealthy
			result.Error = err.Error()
			return result
		}

		secret, err := scheme.Field().Random(r)
		if err != nil {
			return fail(err)
		}
		shares, err := scheme.SplitExistingSecret(secret, 3, 2)
		if err != nil {
			return fail(err)
		}
		pairs := [][2]int{{0, 1}, {0, 2}, {1, 2}}
		for _, p := range pairs {
			got, err := scheme.RecoverSecret([]shamir.Share{shares[p[0]], shares[p[1]]})
			if err != nil {
				return fail(err)
			}
			if got.Cmp(secret) != 0 {
				return fail(fmt.Errorf("shares %d and %d recovered the wrong secret", p[0]+1, p[1]+1))
			}
		}
		zero(secret)

		result.Status = StatusHealthy
		result.Message = "split and recovered a 2-of-3 secret"
		return result
	}
}

func zero(v *big.Int) {
	words := v.Bits()
	for i := range words {
		words[i] = 0
	}
	v.SetInt64(0)
}
