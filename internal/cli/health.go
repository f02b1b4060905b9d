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

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-shamir/pkg/health"
)

func (a *App) newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the entropy source and field with a split/recover self-test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			checker := health.NewChecker()
			checker.RegisterCheck("entropy", health.EntropyCheck(a.rng, a.cfg.RNGConfig().Mode))
			checker.RegisterCheck("field", health.FieldCheck(svc.Scheme().Field()))
			checker.RegisterCheck("round_trip", health.RoundTripCheck(svc.Scheme(), a.rng))

			results := checker.Run(cmd.Context())
			status := health.AggregateStatus(results)
			if err := a.printer().PrintHealth(status, results); err != nil {
				return err
			}
			if status == health.StatusUnhealthy {
				return fmt.Errorf("health check failed")
			}
			return nil
		},
	}
}
