package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"surfsup-server/internal/modules/climate/types"
)

type BreakerSettings struct {
	Name string
	// MaxFailures consecutive store failures open the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before a probe request.
	OpenTimeout time.Duration
}

type breakerStore struct {
	next DatasetStore
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerStore fails fast with ErrStoreUnavailable once the wrapped store
// has failed MaxFailures times in a row. Only ErrStoreUnavailable failures
// count; cancelled requests and scan errors do not trip it.
func NewBreakerStore(next DatasetStore, s BreakerSettings) DatasetStore {
	if s.Name == "" {
		s.Name = "dataset-store"
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	maxFailures := s.MaxFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrStoreUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("store breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &breakerStore{next: next, cb: cb}
}

func (b *breakerStore) ListStations(ctx context.Context) ([]types.Station, error) {
	return run(b.cb, func() ([]types.Station, error) { return b.next.ListStations(ctx) })
}

func (b *breakerStore) QueryMeasurements(ctx context.Context, filter types.MeasurementFilter) ([]types.Measurement, error) {
	return run(b.cb, func() ([]types.Measurement, error) { return b.next.QueryMeasurements(ctx, filter) })
}

func (b *breakerStore) CountMeasurementsByStation(ctx context.Context) ([]types.StationCount, error) {
	return run(b.cb, func() ([]types.StationCount, error) { return b.next.CountMeasurementsByStation(ctx) })
}

func (b *breakerStore) LatestDate(ctx context.Context) (string, error) {
	return run(b.cb, func() (string, error) { return b.next.LatestDate(ctx) })
}

func run[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	res, err := cb.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return zero, err
	}
	return res.(T), nil
}
