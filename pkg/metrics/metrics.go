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

// Package metrics provides Prometheus instrumentation for secret sharing
// operations. It exposes operation counters, duration histograms, error
// counters by kind, and the number of shares issued.
package metrics

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const (
	// Namespace is the Prometheus namespace for all sharing metrics
	Namespace = "sss"

	// Label names
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpSplit    = "split"
	OpGenerate = "generate"
	OpRecover  = "recover"

	// Error kinds
	ErrInvalidThreshold   = "invalid_threshold"
	ErrInvalidSecret      = "invalid_secret"
	ErrInsufficientShares = "insufficient_shares"
	ErrUndefinedInverse   = "undefined_inverse"
	ErrInvalidShare       = "invalid_share"
	ErrInternal           = "internal"
)

var (
	// OperationsTotal tracks the total number of operations by type and status.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of secret sharing operations by type and status",
		},
		[]string{LabelOperation, LabelStatus},
	)

	// OperationDuration tracks the duration of operations in seconds.
	// Interpolation over large share sets is the slow end of the range.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of secret sharing operations in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{LabelOperation},
	)

	// ErrorsTotal tracks failures by operation and error kind.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation and error type",
		},
		[]string{LabelOperation, LabelErrorType},
	)

	// SharesIssuedTotal counts every share handed out by a split.
	SharesIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "shares_issued_total",
			Help:      "Total number of shares issued",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records an operation with its duration and status.
//
// Example:
//
//	start := time.Now()
//	shares, err := scheme.SplitExistingSecret(secret, n, k)
//	status := StatusSuccess
//	if err != nil {
//	    status = StatusError
//	}
//	RecordOperation(OpSplit, status, time.Since(start).Seconds())
func RecordOperation(operation, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
	OperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordError records a failure of the given kind (use the Err* constants).
func RecordError(operation, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordSharesIssued adds n to the shares issued counter.
func RecordSharesIssued(n int) {
	if !enabled.Load() || n <= 0 {
		return
	}
	SharesIssuedTotal.Add(float64(n))
}

// WriteText writes every metric in this package's namespace to w in the
// Prometheus text exposition format.
func WriteText(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	prefix := Namespace + "_"
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
