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
	"github.com/spf13/cobra"
)

func (a *App) newSplitCmd() *cobra.Command {
	var (
		counts shareFlags
		secret string
	)
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split an existing secret into shares",
		Long: `Split a secret integer in [0, p) into n shares, any k of which
recover it. The secret is decimal or 0x hex; pass "-" to read it from stdin.`,
		Example: `  sss split --secret 1234 -n 5 -k 3
  echo 0xdeadbeef | sss split --secret - -n 3 -k 2 -o json > shares.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseSecret(secret, a.in)
			if err != nil {
				return err
			}
			n, k := counts.resolve(cmd, a.cfg.Defaults)
			a.printVerbose("splitting secret into %d of %d shares", k, n)

			svc, err := a.service()
			if err != nil {
				return err
			}
			set, err := svc.Split(cmd.Context(), value, n, k)
			if err != nil {
				return err
			}
			return a.printer().PrintShareSet(set)
		},
	}
	counts.register(cmd)
	cmd.Flags().StringVar(&secret, "secret", "", `secret to split ("-" reads stdin)`)
	_ = cmd.MarkFlagRequired("secret")
	return cmd
}
