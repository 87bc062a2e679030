package scorer

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"rasaroots/internal/logging"
	"rasaroots/internal/monitoring"
)

// GuardConfig bounds calls to a Scorer.
type GuardConfig struct {
	Name             string
	Timeout          time.Duration
	Retries          int
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// Guard wraps a Scorer with a per-attempt timeout, at most one retry and a
// circuit breaker. Every failure it returns wraps ErrUnavailable.
type Guard struct {
	inner   Scorer
	cfg     GuardConfig
	breaker *gobreaker.CircuitBreaker[[]Recommendation]
	monitor *monitoring.Monitor
}

// NewGuard wraps inner. monitor may be nil.
func NewGuard(inner Scorer, cfg GuardConfig, monitor *monitoring.Monitor) *Guard {
	if cfg.Name == "" {
		cfg.Name = "scorer"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Retries > 1 {
		cfg.Retries = 1
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	g := &Guard{inner: inner, cfg: cfg, monitor: monitor}
	g.breaker = gobreaker.NewCircuitBreaker[[]Recommendation](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			monitoring.ScorerBreakerState.Set(float64(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("scorer circuit breaker changed state")
		},
	})
	return g
}

// Score implements Scorer.
func (g *Guard) Score(ctx context.Context, req Request) ([]Recommendation, error) {
	recs, err := g.breaker.Execute(func() ([]Recommendation, error) {
		return g.attempt(ctx, req)
	})
	if err == nil {
		g.record(monitoring.OutcomeSuccess, nil)
		return recs, nil
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		g.record(monitoring.OutcomeRejected, err)
	case errors.Is(err, context.DeadlineExceeded):
		g.record(monitoring.OutcomeTimeout, err)
	default:
		g.record(monitoring.OutcomeError, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// State reports the breaker state.
func (g *Guard) State() gobreaker.State {
	return g.breaker.State()
}

func (g *Guard) attempt(ctx context.Context, req Request) ([]Recommendation, error) {
	var lastErr error
	for i := 0; i <= g.cfg.Retries; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := g.once(ctx, req)
		if err == nil {
			return recs, nil
		}
		lastErr = err
		logging.Ctx(ctx).Debug().Err(err).Int("attempt", i+1).Msg("scorer attempt failed")
	}
	return nil, lastErr
}

func (g *Guard) once(ctx context.Context, req Request) ([]Recommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	return g.inner.Score(ctx, req)
}

func (g *Guard) record(outcome string, err error) {
	if g.monitor != nil {
		g.monitor.RecordScorerOutcome(outcome, err)
		return
	}
	monitoring.ScorerRequests.WithLabelValues(outcome).Inc()
}
