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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-shamir/pkg/shamir"
)

func (a *App) newRecoverCmd() *cobra.Command {
	var (
		rawShares []string
		file      string
	)
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover a secret from shares",
		Long: `Recover a secret from shares given as repeated --share x:y flags, or
from a share set document written by split -o json.

With --file the set's threshold and modulus are checked before recovery.
With --share there is no threshold to check: fewer shares than the split
threshold produce a wrong secret without an error.`,
		Example: `  sss recover --share 1:1252 --share 2:1292 --share 3:1354
  sss recover --file shares.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (len(rawShares) == 0) {
				return fmt.Errorf("exactly one of --share or --file is required")
			}

			svc, err := a.service()
			if err != nil {
				return err
			}

			if file != "" {
				set, err := a.readShareSet(file)
				if err != nil {
					return err
				}
				a.printVerbose("recovering from set %s with %d shares", set.ID, len(set.Shares))
				secret, err := svc.RecoverSet(cmd.Context(), set)
				if err != nil {
					return err
				}
				return a.printer().PrintSecret(secret)
			}

			shares := make([]shamir.Share, 0, len(rawShares))
			for _, raw := range rawShares {
				share, err := shamir.ParseShare(raw)
				if err != nil {
					return err
				}
				shares = append(shares, share)
			}
			secret, err := svc.Recover(cmd.Context(), shares)
			if err != nil {
				return err
			}
			return a.printer().PrintSecret(secret)
		},
	}
	cmd.Flags().StringArrayVar(&rawShares, "share", nil, "share as x:y (repeatable)")
	cmd.Flags().StringVarP(&file, "file", "f", "", `share set JSON file ("-" reads stdin)`)
	return cmd
}

// readShareSet decodes a share set document from path, or stdin for "-".
func (a *App) readShareSet(path string) (*shamir.ShareSet, error) {
	var r io.Reader = a.in
	if path != "-" {
		// #nosec G304 - Share file path is provided by the user
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open share file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var set shamir.ShareSet
	if err := json.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to parse share file: %w", err)
	}
	return &set, nil
}
