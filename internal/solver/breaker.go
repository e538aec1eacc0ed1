package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vk/satcolor/internal/cnf"
)

// BreakerSettings configures NewBreaker.
type BreakerSettings struct {
	// Failures is the number of consecutive ErrUnavailable or ErrIOFault
	// results that opens the breaker. Defaults to 3.
	Failures uint32
	// Cooldown is how long the breaker stays open before one attempt is let
	// through again. Defaults to 30s.
	Cooldown time.Duration
	Logger   *slog.Logger
}

// Breaker guards a gateway with a circuit breaker. While open, Probe and
// Solve fail fast with ErrUnavailable without touching the wrapped gateway.
// Timeouts and verdicts never count as failures.
type Breaker struct {
	gw Gateway
	cb *gobreaker.CircuitBreaker
}

var _ Gateway = (*Breaker)(nil)

func NewBreaker(gw Gateway, s BreakerSettings) *Breaker {
	if s.Failures == 0 {
		s.Failures = 3
	}
	if s.Cooldown <= 0 {
		s.Cooldown = 30 * time.Second
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        gw.Name(),
		MaxRequests: 1,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.Failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.Logger.Warn("Solver circuit breaker changed state.", "engine", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !(errors.Is(err, ErrUnavailable) || errors.Is(err, ErrIOFault))
		},
	})
	return &Breaker{gw: gw, cb: cb}
}

func (b *Breaker) Name() string { return b.gw.Name() }

// State reports the breaker state, for logs and tests.
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func (b *Breaker) Probe(ctx context.Context) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.gw.Probe(ctx)
	})
	return b.translate(err)
}

func (b *Breaker) Solve(ctx context.Context, f *cnf.Formula) (*Verdict, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.gw.Solve(ctx, f)
	})
	if err != nil {
		return nil, b.translate(err)
	}
	return v.(*Verdict), nil
}

func (b *Breaker) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, b.gw.Name(), err)
	}
	return err
}
