package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"surfsup-server/internal/modules/climate/repository"
	"surfsup-server/internal/modules/climate/types"
)

const DefaultLookbackDays = 365

var (
	ErrMalformedDate = errors.New("malformed date")
	ErrInvalidRange  = errors.New("invalid date range")
)

// Engine derives the published climate views from a DatasetStore. It keeps
// no state besides its construction parameters.
type Engine struct {
	store        repository.DatasetStore
	anchor       time.Time
	lookbackDays int
}

// NewEngine builds an engine anchored at anchor, the most recent date of the
// dataset. lookbackDays <= 0 selects DefaultLookbackDays.
func NewEngine(store repository.DatasetStore, anchor time.Time, lookbackDays int) *Engine {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	y, m, d := anchor.Date()
	return &Engine{
		store:        store,
		anchor:       time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		lookbackDays: lookbackDays,
	}
}

// ResolveAnchor returns configured when set, otherwise the latest date held
// by the store. It is meant to run once at startup.
func ResolveAnchor(ctx context.Context, store repository.DatasetStore, configured time.Time) (time.Time, error) {
	if !configured.IsZero() {
		return configured, nil
	}
	latest, err := store.LatestDate(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("derive anchor date: %w", err)
	}
	if latest == "" {
		return time.Time{}, errors.New("derive anchor date: dataset has no measurements; set ANCHOR_DATE")
	}
	anchor, err := ParseDate(latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("derive anchor date: %w", err)
	}
	return anchor, nil
}

// ParseDate parses a strict yyyy-mm-dd calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(types.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q (expected yyyy-mm-dd)", ErrMalformedDate, s)
	}
	return t, nil
}

func (e *Engine) AnchorDate() time.Time {
	return e.anchor
}

// WindowStart is the inclusive lower bound of the lookback window.
func (e *Engine) WindowStart() string {
	return e.anchor.AddDate(0, 0, -e.lookbackDays).Format(types.DateLayout)
}

// PrecipitationLastYear lists precipitation for every station inside the
// lookback window. Missing readings stay nil.
func (e *Engine) PrecipitationLastYear(ctx context.Context) ([]types.Observation, error) {
	rows, err := e.store.QueryMeasurements(ctx, types.MeasurementFilter{From: e.WindowStart()})
	if err != nil {
		return nil, err
	}
	out := make([]types.Observation, 0, len(rows))
	for _, m := range rows {
		out = append(out, types.Observation{Date: m.Date, Value: m.Precipitation})
	}
	return out, nil
}

func (e *Engine) StationRoster(ctx context.Context) ([]types.Station, error) {
	return e.store.ListStations(ctx)
}

// MostActiveStation returns the station with the most measurement rows,
// ties going to the smallest station id. ok is false for an empty dataset.
func (e *Engine) MostActiveStation(ctx context.Context) (stationID string, ok bool, err error) {
	counts, err := e.store.CountMeasurementsByStation(ctx)
	if err != nil {
		return "", false, err
	}
	best, ok := pickMostActive(counts)
	return best.StationID, ok, nil
}

func pickMostActive(counts []types.StationCount) (types.StationCount, bool) {
	var best types.StationCount
	found := false
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		if !found || c.Count > best.Count || (c.Count == best.Count && c.StationID < best.StationID) {
			best = c
			found = true
		}
	}
	return best, found
}

// MostActiveStationObservations lists temperatures of the most active
// station inside the lookback window.
func (e *Engine) MostActiveStationObservations(ctx context.Context) ([]types.Observation, error) {
	stationID, ok, err := e.MostActiveStation(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []types.Observation{}, nil
	}
	rows, err := e.store.QueryMeasurements(ctx, types.MeasurementFilter{
		StationID: stationID,
		From:      e.WindowStart(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]types.Observation, 0, len(rows))
	for _, m := range rows {
		out = append(out, types.Observation{Date: m.Date, Value: m.Temperature})
	}
	return out, nil
}

// TemperatureStats aggregates temperatures of all stations from start
// through end inclusive. A zero end leaves the range open. An empty result,
// including an end before start, is reported through TemperatureStats.Empty,
// not as an error.
func (e *Engine) TemperatureStats(ctx context.Context, start, end time.Time) (types.TemperatureStats, error) {
	if start.IsZero() {
		return types.TemperatureStats{}, fmt.Errorf("%w: start date is required", ErrInvalidRange)
	}
	filter := types.MeasurementFilter{From: start.Format(types.DateLayout)}
	if !end.IsZero() {
		filter.To = end.Format(types.DateLayout)
	}

	rows, err := e.store.QueryMeasurements(ctx, filter)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	return aggregate(rows), nil
}

// aggregate skips nil, NaN and infinite temperatures.
func aggregate(rows []types.Measurement) types.TemperatureStats {
	var (
		stats types.TemperatureStats
		sum   float64
	)
	for _, m := range rows {
		if m.Temperature == nil || math.IsNaN(*m.Temperature) || math.IsInf(*m.Temperature, 0) {
			continue
		}
		v := *m.Temperature
		if stats.Count == 0 || v < stats.Minimum {
			stats.Minimum = v
		}
		if stats.Count == 0 || v > stats.Maximum {
			stats.Maximum = v
		}
		sum += v
		stats.Count++
	}
	if stats.Count > 0 {
		// Rounding in the sum can push the mean one ulp outside [min, max].
		stats.Average = math.Min(math.Max(sum/float64(stats.Count), stats.Minimum), stats.Maximum)
	}
	return stats
}
