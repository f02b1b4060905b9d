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

package field

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	f := Default()

	want, ok := new(big.Int).SetString("170141183460469231731687303715884105727", 10)
	require.True(t, ok)
	assert.Equal(t, 0, f.Modulus().Cmp(want))
	assert.Equal(t, 127, f.Bits())
	assert.Equal(t, 39, f.Digits())

	// Modulus returns a copy.
	m := f.Modulus()
	m.SetInt64(11)
	assert.Equal(t, 0, f.Modulus().Cmp(want))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		p       *big.Int
		wantErr bool
	}{
		{"small prime", big.NewInt(7), false},
		{"three", big.NewInt(3), false},
		{"two", big.NewInt(2), true},
		{"one", big.NewInt(1), true},
		{"negative", big.NewInt(-7), true},
		{"composite", big.NewInt(9), true},
		{"nil", nil, true},
		{"mersenne 61", new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 61), big.NewInt(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.p)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidModulus))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, f.Modulus().Cmp(tt.p))
		})
	}
}

func TestParse(t *testing.T) {
	f, err := Parse("")
	require.NoError(t, err)
	assert.Same(t, Default(), f)

	f, err = Parse("0x7fffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	assert.Equal(t, 0, f.Modulus().Cmp(Default().Modulus()))

	f, err = Parse(" 2305843009213693951 ")
	require.NoError(t, err)
	assert.Equal(t, 61, f.Bits())

	_, err = Parse("not-a-number")
	assert.ErrorIs(t, err, ErrInvalidModulus)

	_, err = Parse("100")
	assert.ErrorIs(t, err, ErrInvalidModulus)
}

func TestArithmetic_SmallField(t *testing.T) {
	f, err := New(big.NewInt(7))
	require.NoError(t, err)

	tests := []struct {
		name string
		got  *big.Int
		want int64
	}{
		{"add wraps", f.Add(big.NewInt(5), big.NewInt(4)), 2},
		{"add zero", f.Add(big.NewInt(0), big.NewInt(0)), 0},
		{"sub wraps", f.Sub(big.NewInt(2), big.NewInt(5)), 4},
		{"sub self", f.Sub(big.NewInt(6), big.NewInt(6)), 0},
		{"sub negative operand", f.Sub(big.NewInt(2), big.NewInt(-3)), 5},
		{"sub unreduced operand", f.Sub(big.NewInt(1), big.NewInt(15)), 0},
		{"mul wraps", f.Mul(big.NewInt(3), big.NewInt(5)), 1},
		{"mul zero", f.Mul(big.NewInt(3), big.NewInt(0)), 0},
		{"neg", f.Neg(big.NewInt(3)), 4},
		{"neg zero", f.Neg(big.NewInt(0)), 0},
		{"reduce negative", f.Reduce(big.NewInt(-1)), 6},
		{"reduce large", f.Reduce(big.NewInt(100)), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got.Int64())
		})
	}
}

func TestArithmetic_DoesNotMutateOperands(t *testing.T) {
	f := Default()
	a := big.NewInt(12345)
	b := big.NewInt(67890)

	_ = f.Add(a, b)
	_ = f.Sub(a, b)
	_ = f.Mul(a, b)
	_ = f.Neg(a)
	_, err := f.Inverse(a)
	require.NoError(t, err)

	assert.Equal(t, int64(12345), a.Int64())
	assert.Equal(t, int64(67890), b.Int64())
}

func TestArithmetic_ResultInRange(t *testing.T) {
	f := Default()
	pMinus1 := new(big.Int).Sub(f.Modulus(), big.NewInt(1))

	values := []*big.Int{
		f.Add(pMinus1, pMinus1),
		f.Mul(pMinus1, pMinus1),
		f.Sub(big.NewInt(0), pMinus1),
		f.Neg(pMinus1),
	}
	for i, v := range values {
		assert.True(t, f.Contains(v), "value %d out of range: %s", i, v)
	}

	// (p-1)^2 = 1 mod p
	assert.Equal(t, int64(1), f.Mul(pMinus1, pMinus1).Int64())
}

func TestContains(t *testing.T) {
	f := Default()
	p := f.Modulus()

	assert.True(t, f.Contains(big.NewInt(0)))
	assert.True(t, f.Contains(new(big.Int).Sub(p, big.NewInt(1))))
	assert.False(t, f.Contains(p))
	assert.False(t, f.Contains(big.NewInt(-1)))
	assert.False(t, f.Contains(nil))
}

func TestInverse_Law(t *testing.T) {
	f := Default()

	values := []*big.Int{
		big.NewInt(1),
		big.NewInt(2),
		big.NewInt(-3),
		big.NewInt(1234),
		new(big.Int).Sub(f.Modulus(), big.NewInt(1)),
		new(big.Int).Add(f.Modulus(), big.NewInt(5)),
	}
	for i := 0; i < 32; i++ {
		a, err := f.RandomNonZero(nil)
		require.NoError(t, err)
		values = append(values, a)
	}

	for _, a := range values {
		inv, err := f.Inverse(a)
		require.NoError(t, err)
		assert.True(t, f.Contains(inv))
		assert.Equal(t, int64(1), f.Mul(a, inv).Int64(), "a=%s", a)
	}
}

func TestInverse_SmallField(t *testing.T) {
	f, err := New(big.NewInt(7))
	require.NoError(t, err)

	want := map[int64]int64{1: 1, 2: 4, 3: 5, 4: 2, 5: 3, 6: 6}
	for a, w := range want {
		inv, err := f.Inverse(big.NewInt(a))
		require.NoError(t, err)
		assert.Equal(t, w, inv.Int64(), "inverse of %d", a)
	}
}

func TestInverse_Zero(t *testing.T) {
	f := Default()

	_, err := f.Inverse(big.NewInt(0))
	assert.ErrorIs(t, err, ErrUndefinedInverse)

	_, err = f.Inverse(f.Modulus())
	assert.ErrorIs(t, err, ErrUndefinedInverse)

	_, err = f.Inverse(new(big.Int).Mul(f.Modulus(), big.NewInt(-2)))
	assert.ErrorIs(t, err, ErrUndefinedInverse)
}

func TestRandomNonZero(t *testing.T) {
	f := Default()

	// An all-zero stream maps to the lowest value of the range.
	zeros := bytes.NewReader(make([]byte, 64))
	n, err := f.RandomNonZero(zeros)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.Int64())

	for i := 0; i < 100; i++ {
		n, err := f.RandomNonZero(nil)
		require.NoError(t, err)
		assert.Equal(t, 1, n.Sign())
		assert.True(t, f.Contains(n))
	}
}

func TestRandom_ReaderFailure(t *testing.T) {
	f := Default()

	_, err := f.RandomNonZero(bytes.NewReader(nil))
	assert.Error(t, err)

	_, err = f.Random(bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err)
}

func TestRandom(t *testing.T) {
	f, err := New(big.NewInt(11))
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for i := 0; i < 500; i++ {
		n, err := f.Random(nil)
		require.NoError(t, err)
		require.True(t, f.Contains(n))
		seen[n.Int64()] = true
	}
	assert.True(t, seen[0], "zero should be reachable")
}
