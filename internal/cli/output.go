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
	"math/big"
	"strings"

	"github.com/jeremyhahn/go-shamir/pkg/health"
	"github.com/jeremyhahn/go-shamir/pkg/shamir"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintShareSet prints the shares of one split. The JSON form is the share
// set document accepted by recover --file.
func (p *Printer) PrintShareSet(set *shamir.ShareSet) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(set)
	case OutputFormatTable:
		p.printShareTable(set)
		return nil
	case OutputFormatText:
		p.printShareText(set)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintGenerated prints a generated secret together with its shares
func (p *Printer) PrintGenerated(secret *big.Int, set *shamir.ShareSet) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"secret":    secret.String(),
			"share_set": set,
		})
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "Secret: %s\n\n", secret)
		p.printShareTable(set)
		return nil
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Generated secret: %s\n\n", secret)
		p.printShareText(set)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSecret prints a recovered secret
func (p *Printer) PrintSecret(secret *big.Int) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"secret": secret.String(),
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Recovered secret: %s\n", secret)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintHealth prints self-check results
func (p *Printer) PrintHealth(status health.Status, results []health.CheckResult) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": status,
			"checks": results,
		})
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "%-12s %-10s %-12s %s\n", "CHECK", "STATUS", "LATENCY", "DETAIL")
		fmt.Fprintln(p.writer, strings.Repeat("-", 60))
		for _, r := range results {
			fmt.Fprintf(p.writer, "%-12s %-10s %-12s %s\n", r.Name, r.Status, r.Latency, healthDetail(r))
		}
		return nil
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Status: %s\n", status)
		for _, r := range results {
			fmt.Fprintf(p.writer, "  - %s: %s (%s)\n", r.Name, r.Status, healthDetail(r))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

func healthDetail(r health.CheckResult) string {
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}

// PrintError prints an error message. Unknown formats print as text so the
// error is never lost.
func (p *Printer) PrintError(err error) error {
	if p.format == OutputFormatJSON {
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	}
	fmt.Fprintf(p.writer, "Error: %v\n", err)
	return nil
}

func (p *Printer) printShareText(set *shamir.ShareSet) {
	fmt.Fprintf(p.writer, "Shares (total %d, %d required to recover):\n", set.Total, set.Threshold)
	for i, share := range set.Shares {
		fmt.Fprintf(p.writer, "Share %d: x=%s, y=%s\n", i+1, share.X, share.Y)
	}
	fmt.Fprintf(p.writer, "Set ID: %s\n", set.ID)
}

func (p *Printer) printShareTable(set *shamir.ShareSet) {
	width := 0
	for _, share := range set.Shares {
		if l := len(share.Y.String()); l > width {
			width = l
		}
	}
	if width < len("Y") {
		width = len("Y")
	}
	fmt.Fprintf(p.writer, "%-6s %-*s\n", "X", width, "Y")
	fmt.Fprintln(p.writer, strings.Repeat("-", width+7))
	for _, share := range set.Shares {
		fmt.Fprintf(p.writer, "%-6s %-*s\n", share.X, width, share.Y)
	}
	fmt.Fprintf(p.writer, "\nID: %s  THRESHOLD: %d  TOTAL: %d\n", set.ID, set.Threshold, set.Total)
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
