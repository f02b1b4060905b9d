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

// Package correlation carries operation IDs through a context so that every
// log record and share set produced by one operation can be tied together.
package correlation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// OperationIDKey is the context key for storing operation IDs
const OperationIDKey contextKey = "operation-id"

// WithOperationID adds an operation ID to the context.
func WithOperationID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, OperationIDKey, id)
}

// GetOperationID retrieves the operation ID from context.
// Returns an empty string if no operation ID is found.
func GetOperationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(OperationIDKey).(string); ok {
		return id
	}
	return ""
}

// NewID generates a new UUID v4 operation ID.
func NewID() string {
	return uuid.New().String()
}

// GetOrGenerate retrieves an existing operation ID from context
// or generates a new one if none exists.
func GetOrGenerate(ctx context.Context) string {
	if id := GetOperationID(ctx); id != "" {
		return id
	}
	return NewID()
}

// Ensure returns a context that is guaranteed to carry an operation ID,
// along with that ID.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := GetOperationID(ctx); id != "" {
		return ctx, id
	}
	id := NewID()
	return WithOperationID(ctx, id), id
}

// Validate reports whether id is a well formed UUID.
func Validate(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid operation id %q: %w", id, err)
	}
	return nil
}
