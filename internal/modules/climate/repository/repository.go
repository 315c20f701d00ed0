package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"surfsup-server/internal/modules/climate/types"
)

//go:embed sql/list-stations.sql
var listStationsSQL string

//go:embed sql/query-measurements.sql
var queryMeasurementsSQL string

//go:embed sql/count-measurements-by-station.sql
var countMeasurementsByStationSQL string

//go:embed sql/latest-date.sql
var latestDateSQL string

// ErrStoreUnavailable marks failures of the underlying dataset store. It is
// never retried here.
var ErrStoreUnavailable = errors.New("dataset store unavailable")

// DatasetStore is a read-only view over the station and measurement tables.
// Implementations must be safe for concurrent use.
type DatasetStore interface {
	ListStations(ctx context.Context) ([]types.Station, error)
	QueryMeasurements(ctx context.Context, filter types.MeasurementFilter) ([]types.Measurement, error)
	CountMeasurementsByStation(ctx context.Context) ([]types.StationCount, error)
	LatestDate(ctx context.Context) (string, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) DatasetStore {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) ListStations(ctx context.Context) ([]types.Station, error) {
	rows, err := r.db.QueryContext(ctx, listStationsSQL)
	if err != nil {
		return nil, storeErr("list stations", err)
	}
	defer closeRows(rows, "stations")

	out := make([]types.Station, 0)
	for rows.Next() {
		var s types.Station
		if err := rows.Scan(&s.StationID, &s.Name, &s.Latitude, &s.Longitude, &s.Elevation); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list stations", err)
	}
	return out, nil
}

func (r *repositoryImpl) QueryMeasurements(ctx context.Context, filter types.MeasurementFilter) ([]types.Measurement, error) {
	rows, err := r.db.QueryContext(ctx, queryMeasurementsSQL, filter.StationID, filter.From, filter.To)
	if err != nil {
		return nil, storeErr("query measurements", err)
	}
	defer closeRows(rows, "measurements")

	out := make([]types.Measurement, 0)
	for rows.Next() {
		var (
			m    types.Measurement
			prcp sql.NullFloat64
			tobs sql.NullFloat64
		)
		if err := rows.Scan(&m.StationID, &m.Date, &prcp, &tobs); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		m.Precipitation = floatPtr(prcp)
		m.Temperature = floatPtr(tobs)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("query measurements", err)
	}
	return out, nil
}

func (r *repositoryImpl) CountMeasurementsByStation(ctx context.Context) ([]types.StationCount, error) {
	rows, err := r.db.QueryContext(ctx, countMeasurementsByStationSQL)
	if err != nil {
		return nil, storeErr("count measurements", err)
	}
	defer closeRows(rows, "station counts")

	out := make([]types.StationCount, 0)
	for rows.Next() {
		var c types.StationCount
		if err := rows.Scan(&c.StationID, &c.Count); err != nil {
			return nil, fmt.Errorf("scan station count: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("count measurements", err)
	}
	return out, nil
}

func (r *repositoryImpl) LatestDate(ctx context.Context) (string, error) {
	var d string
	if err := r.db.QueryRowContext(ctx, latestDateSQL).Scan(&d); err != nil {
		return "", storeErr("latest date", err)
	}
	return d, nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close "+what+" rows", "error", err)
	}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
