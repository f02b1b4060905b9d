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

package correlation

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithOperationID(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		id   string
		want string
	}{
		{
			name: "Add operation ID to context",
			ctx:  context.Background(),
			id:   "split-1",
			want: "split-1",
		},
		{
			name: "Add operation ID to nil context",
			ctx:  nil,
			id:   "split-2",
			want: "split-2",
		},
		{
			name: "Add empty operation ID",
			ctx:  context.Background(),
			id:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithOperationID(tt.ctx, tt.id)
			if ctx == nil {
				t.Fatal("WithOperationID returned nil context")
			}
			if got := GetOperationID(ctx); got != tt.want {
				t.Errorf("GetOperationID() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetOperationID_Missing(t *testing.T) {
	if got := GetOperationID(context.Background()); got != "" {
		t.Errorf("GetOperationID() = %v, want empty", got)
	}
	if got := GetOperationID(nil); got != "" { //nolint:staticcheck
		t.Errorf("GetOperationID(nil) = %v, want empty", got)
	}
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("NewID() returned invalid UUID %q: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("NewID() returned duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestGetOrGenerate(t *testing.T) {
	ctx := WithOperationID(context.Background(), "existing")
	if got := GetOrGenerate(ctx); got != "existing" {
		t.Errorf("GetOrGenerate() = %v, want existing", got)
	}

	got := GetOrGenerate(context.Background())
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("GetOrGenerate() returned invalid UUID %q", got)
	}
}

func TestEnsure(t *testing.T) {
	ctx, id := Ensure(context.Background())
	if id == "" {
		t.Fatal("Ensure() returned empty id")
	}
	if got := GetOperationID(ctx); got != id {
		t.Errorf("GetOperationID() = %v, want %v", got, id)
	}

	ctx2, id2 := Ensure(ctx)
	if id2 != id {
		t.Errorf("Ensure() replaced existing id %v with %v", id, id2)
	}
	if ctx2 != ctx {
		t.Error("Ensure() should return the original context when an id is present")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(NewID()); err != nil {
		t.Errorf("Validate() rejected a generated id: %v", err)
	}
	if err := Validate("not-a-uuid"); err == nil {
		t.Error("Validate() accepted a malformed id")
	}
}

func BenchmarkNewID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewID()
	}
}

func BenchmarkEnsure(b *testing.B) {
	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		_, _ = Ensure(ctx)
	}
}
