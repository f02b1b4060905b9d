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
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Share is one point (x, y) on the secret encoding polynomial.
type Share struct {
	// X is the evaluation point, 1..n for shares produced by a split.
	X *big.Int

	// Y is the polynomial evaluated at X, mod p.
	Y *big.Int
}

// shareJSON is the wire form of a Share. Coordinates are decimal strings so
// values above 2^53 survive JSON number handling.
type shareJSON struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// NewShare creates a share from int64 coordinates.
func NewShare(x, y int64) Share {
	return Share{X: big.NewInt(x), Y: big.NewInt(y)}
}

// ParseShare parses a share written as "x:y". Each coordinate is decimal, or
// hex with a 0x prefix.
func ParseShare(s string) (Share, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Share{}, fmt.Errorf("%w: %q is not of the form x:y", ErrInvalidShare, s)
	}
	x, err := parseCoordinate("x", xs)
	if err != nil {
		return Share{}, err
	}
	y, err := parseCoordinate("y", ys)
	if err != nil {
		return Share{}, err
	}
	return Share{X: x, Y: y}, nil
}

func parseCoordinate(name, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse %s coordinate %q", ErrInvalidShare, name, s)
	}
	return v, nil
}

// Validate checks that both coordinates are present.
func (s Share) Validate() error {
	if s.X == nil {
		return fmt.Errorf("%w: missing x coordinate", ErrInvalidShare)
	}
	if s.Y == nil {
		return fmt.Errorf("%w: missing y coordinate", ErrInvalidShare)
	}
	return nil
}

// String returns the share as "x:y", the form accepted by ParseShare.
func (s Share) String() string {
	return fmt.Sprintf("%s:%s", coordinateString(s.X), coordinateString(s.Y))
}

func coordinateString(v *big.Int) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}

// MarshalJSON implements json.Marshaler for Share
func (s Share) MarshalJSON() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(shareJSON{X: s.X.String(), Y: s.Y.String()})
}

// UnmarshalJSON implements json.Unmarshaler for Share
func (s *Share) UnmarshalJSON(data []byte) error {
	var aux shareJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	x, err := parseCoordinate("x", aux.X)
	if err != nil {
		return err
	}
	y, err := parseCoordinate("y", aux.Y)
	if err != nil {
		return err
	}
	s.X, s.Y = x, y
	return nil
}

// ShareSet groups the shares of one split with the parameters a holder needs
// to recombine them. The scheme itself never reads these fields; they exist
// so callers can keep track of which shares belong together.
type ShareSet struct {
	// ID identifies the split that produced the shares.
	ID string `json:"id"`

	// Threshold is the minimum number of shares required (k).
	Threshold int `json:"threshold"`

	// Total is the number of shares issued (n).
	Total int `json:"total"`

	// Modulus is the field prime in decimal.
	Modulus string `json:"modulus"`

	Shares []Share `json:"shares"`
}

// Validate checks the set parameters and every share.
func (s *ShareSet) Validate() error {
	if s.Threshold < 1 || s.Total < s.Threshold {
		return fmt.Errorf("%w: threshold %d of %d", ErrInvalidThreshold, s.Threshold, s.Total)
	}
	for i, share := range s.Shares {
		if err := share.Validate(); err != nil {
			return fmt.Errorf("share %d: %w", i, err)
		}
	}
	return nil
}
