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
	"errors"

	"github.com/jeremyhahn/go-shamir/pkg/field"
)

var (
	// ErrInvalidThreshold is returned when the threshold pair violates
	// 1 <= k <= n, or when n shares cannot be given distinct non-zero x
	// coordinates in the field.
	ErrInvalidThreshold = errors.New("shamir: invalid threshold")

	// ErrInvalidSecret is returned when a secret is not a field element, or
	// when a secret digit length could produce one that is not.
	ErrInvalidSecret = errors.New("shamir: invalid secret")

	// ErrInsufficientShares is returned when fewer than two shares are
	// supplied for recovery.
	ErrInsufficientShares = errors.New("shamir: insufficient shares")

	// ErrUndefinedInverse is returned when two shares carry the same x
	// coordinate, which makes interpolation undefined. It is the same value
	// as field.ErrUndefinedInverse.
	ErrUndefinedInverse = field.ErrUndefinedInverse

	// ErrInvalidShare is returned for a share with a missing coordinate.
	ErrInvalidShare = errors.New("shamir: invalid share")
)
