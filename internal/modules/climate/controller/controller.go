package controller

import (
	"context"
	"net/http"
	"time"

	"surfsup-server/internal/modules/climate/types"

	"github.com/go-playground/validator/v10"
)

// ClimateEngine is the subset of service.Engine the handlers depend on.
type ClimateEngine interface {
	AnchorDate() time.Time
	PrecipitationLastYear(ctx context.Context) ([]types.Observation, error)
	StationRoster(ctx context.Context) ([]types.Station, error)
	MostActiveStationObservations(ctx context.Context) ([]types.Observation, error)
	TemperatureStats(ctx context.Context, start, end time.Time) (types.TemperatureStats, error)
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	engine   ClimateEngine
	validate *validator.Validate
}

func NewClimateController(engine ClimateEngine) ClimateController {
	return &climateControllerImpl{
		engine:   engine,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTobs)
	mux.HandleFunc("GET /api/v1.0/{start}", c.handleStatsFrom)
	mux.HandleFunc("GET /api/v1.0/{start}/{end}", c.handleStatsRange)
}
