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

func (a *App) newGenerateCmd() *cobra.Command {
	var (
		counts shareFlags
		digits int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random secret and split it",
		Long: `Generate a random secret with exactly --digits decimal digits and
split it into n shares, any k of which recover it.`,
		Example: `  sss generate -n 5 -k 3 --digits 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, k := counts.resolve(cmd, a.cfg.Defaults)
			if !cmd.Flags().Changed("digits") {
				digits = a.cfg.Defaults.Digits
			}
			a.printVerbose("generating %d-digit secret, %d of %d shares", digits, k, n)

			svc, err := a.service()
			if err != nil {
				return err
			}
			secret, set, err := svc.Generate(cmd.Context(), digits, n, k)
			if err != nil {
				return err
			}
			return a.printer().PrintGenerated(secret, set)
		},
	}
	counts.register(cmd)
	cmd.Flags().IntVar(&digits, "digits", 0, "decimal digits in the generated secret")
	return cmd
}
