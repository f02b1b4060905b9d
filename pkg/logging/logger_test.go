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

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Writer: &buf})

	log.Info("split complete", "shares", 5)
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "split complete")
	assert.Contains(t, out, "shares=5")
	assert.NotContains(t, out, "hidden")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: FormatJSON, Writer: &buf})

	log.With("op_id", "abc").Debug("threshold", "k", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "threshold", record["msg"])
	assert.Equal(t, float64(3), record["k"])
	assert.Equal(t, "abc", record["op_id"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Writer: &buf})

	log.Info("info message")
	log.Warn("warn message")
	log.Error(errors.New("boom"), "kind", "internal")

	out := buf.String()
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "kind=internal")
}

func TestNew_DebugFlag(t *testing.T) {
	assert.True(t, New(Options{Level: "debug"}).debug)
	assert.False(t, New(Options{}).debug)
	assert.False(t, New(Options{Level: "bogus"}).debug)
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.NotPanics(t, func() {
		log.Info("dropped", "n", 1)
		log.Error(errors.New("dropped"))
	})
}
