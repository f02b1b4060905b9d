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

// Package service wraps a shamir.Scheme with operation IDs, structured
// logging and Prometheus metrics. Secrets and share values are never logged.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jeremyhahn/go-shamir/pkg/correlation"
	"github.com/jeremyhahn/go-shamir/pkg/logging"
	"github.com/jeremyhahn/go-shamir/pkg/metrics"
	"github.com/jeremyhahn/go-shamir/pkg/shamir"
)

// ErrModulusMismatch is returned when a share set was produced over a
// different field than the service uses.
var ErrModulusMismatch = errors.New("share set modulus does not match field")

// Config configures a Service.
type Config struct {
	// Scheme performs the splitting. Default: shamir.New(nil)
	Scheme *shamir.Scheme

	// Logger receives operation records. Default: logging.Discard()
	Logger *logging.Logger
}

// Service is safe for concurrent use whenever its scheme is.
type Service struct {
	scheme *shamir.Scheme
	log    *logging.Logger
}

// New creates a Service. A nil config uses the defaults.
func New(cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	scheme := cfg.Scheme
	if scheme == nil {
		scheme = shamir.New(nil)
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Service{scheme: scheme, log: log}
}

// Scheme returns the underlying scheme.
func (s *Service) Scheme() *shamir.Scheme {
	return s.scheme
}

// Split divides an existing secret into n shares with threshold k. The
// returned set is labelled with the operation ID carried by ctx, or a new one.
func (s *Service) Split(ctx context.Context, secret *big.Int, n, k int) (*shamir.ShareSet, error) {
	ctx, id := correlation.Ensure(ctx)
	log := s.log.With("op_id", id, "operation", metrics.OpSplit)
	log.Debug("splitting secret", "total", n, "threshold", k, "modulus_bits", s.scheme.Field().Bits())

	start := time.Now()
	shares, err := s.scheme.SplitExistingSecret(secret, n, k)
	if err != nil {
		s.fail(log, metrics.OpSplit, start, err)
		return nil, err
	}
	s.succeed(log, metrics.OpSplit, start, "shares", len(shares))
	metrics.RecordSharesIssued(len(shares))
	return s.shareSet(ctx, k, shares), nil
}

// Generate draws a random secret with the given number of decimal digits and
// splits it into n shares with threshold k.
func (s *Service) Generate(ctx context.Context, digits, n, k int) (*big.Int, *shamir.ShareSet, error) {
	ctx, id := correlation.Ensure(ctx)
	log := s.log.With("op_id", id, "operation", metrics.OpGenerate)
	log.Debug("generating secret", "digits", digits, "total", n, "threshold", k)

	start := time.Now()
	secret, shares, err := s.scheme.GenerateAndSplit(n, digits, k)
	if err != nil {
		s.fail(log, metrics.OpGenerate, start, err)
		return nil, nil, err
	}
	s.succeed(log, metrics.OpGenerate, start, "shares", len(shares))
	metrics.RecordSharesIssued(len(shares))
	return secret, s.shareSet(ctx, k, shares), nil
}

// Recover reconstructs the secret from shares. Fewer than the original
// threshold yields a wrong value without an error; use RecoverSet when the
// threshold is known.
func (s *Service) Recover(ctx context.Context, shares []shamir.Share) (*big.Int, error) {
	_, id := correlation.Ensure(ctx)
	log := s.log.With("op_id", id, "operation", metrics.OpRecover)
	return s.recover(log, shares)
}

// RecoverSet reconstructs the secret from a share set, rejecting sets built
// over another field or holding fewer shares than their threshold.
func (s *Service) RecoverSet(ctx context.Context, set *shamir.ShareSet) (*big.Int, error) {
	ctxID := correlation.GetOperationID(ctx)
	if ctxID == "" && set != nil {
		ctxID = set.ID
	}
	if ctxID == "" {
		ctxID = correlation.NewID()
	}
	log := s.log.With("op_id", ctxID, "operation", metrics.OpRecover)

	if err := s.checkSet(set); err != nil {
		s.fail(log, metrics.OpRecover, time.Now(), err)
		return nil, err
	}
	return s.recover(log, set.Shares)
}

func (s *Service) recover(log *logging.Logger, shares []shamir.Share) (*big.Int, error) {
	log.Debug("recovering secret", "shares", len(shares))

	start := time.Now()
	secret, err := s.scheme.RecoverSecret(shares)
	if err != nil {
		s.fail(log, metrics.OpRecover, start, err)
		return nil, err
	}
	s.succeed(log, metrics.OpRecover, start, "shares", len(shares))
	return secret, nil
}

func (s *Service) checkSet(set *shamir.ShareSet) error {
	if set == nil {
		return fmt.Errorf("%w: no share set", shamir.ErrInsufficientShares)
	}
	if set.Modulus != "" {
		p, ok := new(big.Int).SetString(set.Modulus, 10)
		if !ok || p.Cmp(s.scheme.Field().Modulus()) != 0 {
			return fmt.Errorf("%w: set uses %s", ErrModulusMismatch, set.Modulus)
		}
	}
	if err := set.Validate(); err != nil {
		return err
	}
	if len(set.Shares) < set.Threshold {
		return fmt.Errorf("%w: have %d, threshold is %d",
			shamir.ErrInsufficientShares, len(set.Shares), set.Threshold)
	}
	return nil
}

func (s *Service) shareSet(ctx context.Context, k int, shares []shamir.Share) *shamir.ShareSet {
	return &shamir.ShareSet{
		ID:        correlation.GetOrGenerate(ctx),
		Threshold: k,
		Total:     len(shares),
		Modulus:   s.scheme.Field().Modulus().String(),
		Shares:    shares,
	}
}

func (s *Service) succeed(log *logging.Logger, op string, start time.Time, args ...any) {
	elapsed := time.Since(start)
	metrics.RecordOperation(op, metrics.StatusSuccess, elapsed.Seconds())
	log.Info(op+" complete", append(args, "duration", elapsed)...)
}

func (s *Service) fail(log *logging.Logger, op string, start time.Time, err error) {
	kind := ErrorKind(err)
	metrics.RecordOperation(op, metrics.StatusError, time.Since(start).Seconds())
	metrics.RecordError(op, kind)
	if kind == metrics.ErrInternal {
		log.Error(err, "error_type", kind)
		return
	}
	log.Warn(op+" failed", "error_type", kind, "error", err)
}

// ErrorKind maps an error to the metrics error_type label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, shamir.ErrInvalidThreshold):
		return metrics.ErrInvalidThreshold
	case errors.Is(err, shamir.ErrInvalidSecret):
		return metrics.ErrInvalidSecret
	case errors.Is(err, shamir.ErrInsufficientShares):
		return metrics.ErrInsufficientShares
	case errors.Is(err, shamir.ErrUndefinedInverse):
		return metrics.ErrUndefinedInverse
	case errors.Is(err, shamir.ErrInvalidShare), errors.Is(err, ErrModulusMismatch):
		return metrics.ErrInvalidShare
	default:
		return metrics.ErrInternal
	}
}
