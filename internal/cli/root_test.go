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

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-shamir/pkg/shamir"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(strings.NewReader(stdin), &out, &errOut)
	err := app.Run(args)
	return out.String(), errOut.String(), err
}

func splitJSON(t *testing.T, args ...string) *shamir.ShareSet {
	t.Helper()
	out, _, err := runCLI(t, "", append([]string{"split", "-o", "json", "--entropy", "software"}, args...)...)
	require.NoError(t, err)

	var set shamir.ShareSet
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	return &set
}

func shareArgs(shares []shamir.Share) []string {
	args := []string{"recover"}
	for _, s := range shares {
		args = append(args, "--share", s.String())
	}
	return args
}

func TestVersion(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sss version dev")

	out, _, err = runCLI(t, "", "version", "-o", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info["version"])
}

func TestVersion_OutputFromEnv(t *testing.T) {
	t.Setenv("SSS_OUTPUT", "json")

	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), "expected JSON, got %q", out)
}

func TestSplitAndRecover_Shares(t *testing.T) {
	set := splitJSON(t, "--secret", "1234", "-n", "5", "-k", "3")

	require.Len(t, set.Shares, 5)
	assert.Equal(t, 3, set.Threshold)
	assert.Equal(t, 5, set.Total)
	assert.Equal(t, "170141183460469231731687303715884105727", set.Modulus)
	for i, share := range set.Shares {
		assert.Equal(t, int64(i+1), share.X.Int64())
	}

	out, _, err := runCLI(t, "", shareArgs(set.Shares[2:5])...)
	require.NoError(t, err)
	assert.Equal(t, "Recovered secret: 1234\n", out)
}

func TestSplitAndRecover_File(t *testing.T) {
	set := splitJSON(t, "--secret", "987654321", "-n", "4", "-k", "2")

	data, err := json.Marshal(set)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "shares.json")
	require.NoError(t, os.WriteFile(path, data, 0600))

	out, _, err := runCLI(t, "", "recover", "--file", path, "-o", "json")
	require.NoError(t, err)
	var result map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "987654321", result["secret"])

	out, _, err = runCLI(t, string(data), "recover", "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "987654321")
}

func TestRecover_FileBelowThreshold(t *testing.T) {
	set := splitJSON(t, "--secret", "42", "-n", "5", "-k", "3")
	set.Shares = set.Shares[:2]
	data, err := json.Marshal(set)
	require.NoError(t, err)

	_, _, err = runCLI(t, string(data), "recover", "--file", "-")
	assert.ErrorIs(t, err, shamir.ErrInsufficientShares)
}

func TestSplit_SecretFromStdin(t *testing.T) {
	out, _, err := runCLI(t, "0xff\n", "split", "--secret", "-", "-n", "3", "-k", "2", "-o", "json")
	require.NoError(t, err)

	var set shamir.ShareSet
	require.NoError(t, json.Unmarshal([]byte(out), &set))

	out, _, err = runCLI(t, "", shareArgs(set.Shares[:2])...)
	require.NoError(t, err)
	assert.Contains(t, out, "Recovered secret: 255")
}

func TestSplit_TableOutput(t *testing.T) {
	out, _, err := runCLI(t, "", "split", "--secret", "7", "-n", "3", "-k", "2", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "THRESHOLD: 2")
	assert.Contains(t, out, "TOTAL: 3")
}

func TestSplit_TextOutput(t *testing.T) {
	out, _, err := runCLI(t, "", "split", "--secret", "7", "-n", "3", "-k", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Shares (total 3, 2 required to recover):")
	assert.Contains(t, out, "Share 3: x=3, y=")
}

func TestGenerate(t *testing.T) {
	out, _, err := runCLI(t, "", "generate", "-n", "4", "-k", "2", "--digits", "10", "-o", "json")
	require.NoError(t, err)

	var result struct {
		Secret   string          `json:"secret"`
		ShareSet shamir.ShareSet `json:"share_set"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Secret, 10)
	require.Len(t, result.ShareSet.Shares, 4)

	out, _, err = runCLI(t, "", shareArgs(result.ShareSet.Shares[1:3])...)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Recovered secret: %s\n", result.Secret), out)
}

func TestConfigFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sss.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output: json
defaults:
  shares: 4
  threshold: 2
  digits: 6
`), 0600))

	out, _, err := runCLI(t, "", "--config", path, "split", "--secret", "77")
	require.NoError(t, err)
	var set shamir.ShareSet
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	assert.Equal(t, 4, set.Total)
	assert.Equal(t, 2, set.Threshold)

	out, _, err = runCLI(t, "", "--config", path, "split", "--secret", "77", "-n", "6", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Shares (total 6, 2 required to recover):")
}

func TestCustomModulus(t *testing.T) {
	out, _, err := runCLI(t, "", "--modulus", "2305843009213693951", "split", "--secret", "100", "-n", "3", "-k", "2", "-o", "json")
	require.NoError(t, err)
	var set shamir.ShareSet
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	assert.Equal(t, "2305843009213693951", set.Modulus)

	_, _, err = runCLI(t, "", "--modulus", "7", "split", "--secret", "9", "-n", "3", "-k", "2")
	assert.ErrorIs(t, err, shamir.ErrInvalidSecret)
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		is      error
		message string
	}{
		{"threshold above total", []string{"split", "--secret", "5", "-n", "2", "-k", "3"}, shamir.ErrInvalidThreshold, ""},
		{"zero digits", []string{"generate", "-n", "3", "-k", "2", "--digits", "0"}, shamir.ErrInvalidSecret, ""},
		{"single share", []string{"recover", "--share", "1:5"}, shamir.ErrInsufficientShares, ""},
		{"duplicate x", []string{"recover", "--share", "1:5", "--share", "1:6"}, shamir.ErrUndefinedInverse, ""},
		{"malformed share", []string{"recover", "--share", "1-5", "--share", "2:6"}, shamir.ErrInvalidShare, ""},
		{"no shares", []string{"recover"}, nil, "exactly one of --share or --file"},
		{"missing secret", []string{"split", "-n", "3", "-k", "2"}, nil, "secret"},
		{"bad secret", []string{"split", "--secret", "abc"}, nil, "secret must be an integer"},
		{"bad output", []string{"split", "--secret", "1", "-o", "yaml"}, nil, "invalid output format"},
		{"bad entropy", []string{"split", "--secret", "1", "--entropy", "dice"}, nil, "unknown RNG mode"},
		{"missing config", []string{"--config", "/nonexistent/sss.yaml", "version"}, nil, "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, "", tt.args...)
			require.Error(t, err)
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is), "expected %v, got %v", tt.is, err)
			}
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestVerboseAndMetrics(t *testing.T) {
	_, errOut, err := runCLI(t, "", "-v", "--metrics", "split", "--secret", "8675309867530986753", "-n", "3", "-k", "2")
	require.NoError(t, err)

	assert.Contains(t, errOut, "[VERBOSE]")
	assert.Contains(t, errOut, "split complete")
	assert.Contains(t, errOut, "sss_operations_total")
	assert.NotContains(t, errOut, "8675309867530986753")
}

func TestHealth(t *testing.T) {
	out, _, err := runCLI(t, "", "health", "--entropy", "software")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: healthy")
	assert.Contains(t, out, "  - entropy: healthy (software source)")
	assert.Contains(t, out, "  - field: healthy (127-bit prime modulus)")
	assert.Contains(t, out, "  - round_trip: healthy")

	out, _, err = runCLI(t, "", "health", "--entropy", "software", "-o", "json")
	require.NoError(t, err)
	var result struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "healthy", result.Status)
	assert.Len(t, result.Checks, 3)
}

func TestHandleError(t *testing.T) {
	var errOut bytes.Buffer
	app := NewApp(strings.NewReader(""), &bytes.Buffer{}, &errOut)
	handleError(app, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", errOut.String())
}
