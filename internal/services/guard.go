package services

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Gate reports and repairs the two preconditions of a playback operation: a valid token and an active device.
type Gate interface {
	AuthOK(ctx context.Context) bool
	AuthRefresh(ctx context.Context) error
	IsActiveDevice(ctx context.Context) (bool, error)
	CandidateDevice(ctx context.Context) (string, error)
}

// PlayOptions carries the target device of a playback operation. An empty DeviceID targets the active device.
type PlayOptions struct {
	DeviceID string
}

// Operation is a device-dependent call guarded by a [Policy].
type Operation[T any] func(ctx context.Context, opts PlayOptions) (T, error)

// Policy checks the token and device gates before each guarded operation.
type Policy struct {
	gate   Gate
	logger *log.Logger
}

// NewPolicy creates a [Policy] over gate. A nil logger discards policy logs.
func NewPolicy(gate Gate, logger *log.Logger) *Policy {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Policy{gate: gate, logger: logger}
}

// Guard wraps op so that every call first refreshes a stale token and substitutes a candidate device
// when none is active. Each gate is checked once per call and op runs exactly once.
//
// The candidate device overrides whatever DeviceID the caller passed. Errors returned by op are not
// wrapped or retried.
func Guard[T any](p *Policy, op Operation[T]) Operation[T] {
	return func(ctx context.Context, opts PlayOptions) (T, error) {
		var zero T

		if !p.gate.AuthOK(ctx) {
			p.logger.Info("access token invalid, refreshing")
			if err := p.gate.AuthRefresh(ctx); err != nil {
				return zero, fmt.Errorf("refresh before playback call: %w", err)
			}
		}

		active, err := p.gate.IsActiveDevice(ctx)
		if err != nil {
			return zero, fmt.Errorf("check active device: %w", err)
		}
		if !active {
			device, err := p.gate.CandidateDevice(ctx)
			if err != nil {
				return zero, fmt.Errorf("find candidate device: %w", err)
			}
			p.logger.Info("no active device, using candidate", "device", device)
			opts.DeviceID = device
		}

		return op(ctx, opts)
	}
}

// Run guards and invokes an operation that only reports an error.
func (p *Policy) Run(ctx context.Context, opts PlayOptions, op func(ctx context.Context, opts PlayOptions) error) error {
	_, err := Guard[struct{}](p, func(ctx context.Context, opts PlayOptions) (struct{}, error) {
		return struct{}{}, op(ctx, opts)
	})(ctx, opts)
	return err
}
