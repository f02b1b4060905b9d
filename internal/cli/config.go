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
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-shamir/internal/config"
)

// shareFlags holds the -n/-k flags shared by generate and split. Omitted
// flags take their value from the config file defaults.
type shareFlags struct {
	shares    int
	threshold int
}

func (f *shareFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.shares, "shares", "n", 0, "number of shares to issue (n)")
	cmd.Flags().IntVarP(&f.threshold, "threshold", "k", 0, "shares required to recover (k)")
}

func (f *shareFlags) resolve(cmd *cobra.Command, defaults config.DefaultsConfig) (n, k int) {
	n, k = defaults.Shares, defaults.Threshold
	if cmd.Flags().Changed("shares") {
		n = f.shares
	}
	if cmd.Flags().Changed("threshold") {
		k = f.threshold
	}
	return n, k
}

// parseSecret parses a decimal or 0x hex secret. "-" reads the secret from in.
func parseSecret(s string, in io.Reader) (*big.Int, error) {
	if s == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read secret from stdin: %w", err)
		}
		s = string(data)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("secret is required")
	}
	secret, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("secret must be an integer")
	}
	return secret, nil
}
