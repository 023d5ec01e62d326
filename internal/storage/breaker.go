package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds configuration for the asset store circuit breaker.
type BreakerConfig struct {
	// Name identifies this breaker (used in metrics and logs).
	Name string

	// MaxRequests is the maximum number of requests allowed in the half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state for clearing internal counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open before moving to half-open.
	Timeout time.Duration

	// FailureRatio is the ratio of failures to total requests that trips the breaker.
	FailureRatio float64

	// MinRequests is the minimum number of requests needed before the failure ratio is evaluated.
	MinRequests uint32

	// CallTimeout is the per-call deadline applied to every store operation.
	CallTimeout time.Duration
}

// DefaultBreakerConfig returns sensible defaults for the asset store breaker.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
		CallTimeout:  10 * time.Second,
	}
}

var assetStoreBreakerState = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "asset_store_breaker_state",
		Help: "Current state of the asset store circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

func init() {
	prometheus.MustRegister(assetStoreBreakerState)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// ErrCircuitOpen is returned when the breaker is open and rejects the call.
var ErrCircuitOpen = gobreaker.ErrOpenState

// ResilientStore wraps an AssetStore with a circuit breaker and a per-call
// deadline. Upload and Destroy share one breaker: the failure mode they guard
// against is the store being down, not a single bad object.
type ResilientStore struct {
	inner       AssetStore
	breaker     *gobreaker.CircuitBreaker[*Asset]
	callTimeout time.Duration
	logger      *slog.Logger
}

// NewResilientStore wraps an existing asset store with breaker protection.
func NewResilientStore(inner AssetStore, cfg BreakerConfig, logger *slog.Logger) *ResilientStore {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("asset store breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			assetStoreBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	assetStoreBreakerState.WithLabelValues(cfg.Name).Set(0)

	return &ResilientStore{
		inner:       inner,
		breaker:     gobreaker.NewCircuitBreaker[*Asset](settings),
		callTimeout: cfg.CallTimeout,
		logger:      logger,
	}
}

// Upload stores an asset through the breaker under the per-call deadline.
func (s *ResilientStore) Upload(ctx context.Context, input *UploadInput) (*Asset, error) {
	return s.breaker.Execute(func() (*Asset, error) {
		callCtx, cancel := s.withDeadline(ctx)
		defer cancel()
		return s.inner.Upload(callCtx, input)
	})
}

// Destroy removes an asset through the breaker under the per-call deadline.
func (s *ResilientStore) Destroy(ctx context.Context, remoteID string) error {
	_, err := s.breaker.Execute(func() (*Asset, error) {
		callCtx, cancel := s.withDeadline(ctx)
		defer cancel()
		return nil, s.inner.Destroy(callCtx, remoteID)
	})
	return err
}

func (s *ResilientStore) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.callTimeout)
}
