package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"surfsup-server/internal/modules/climate/repository"
	"surfsup-server/internal/modules/climate/service"
	"surfsup-server/internal/modules/climate/views"
	"surfsup-server/internal/utils"
)

var routeDocs = []views.RouteDoc{
	{Path: "/api/v1.0/precipitation", Example: "/api/v1.0/precipitation", Description: "Precipitation of the last year, all stations"},
	{Path: "/api/v1.0/stations", Example: "/api/v1.0/stations", Description: "Station roster"},
	{Path: "/api/v1.0/tobs", Example: "/api/v1.0/tobs", Description: "Temperature observations of the most active station, last year"},
	{Path: "/api/v1.0/<start>", Example: "/api/v1.0/2017-01-01", Description: "Min, max and average temperature from start (yyyy-mm-dd)"},
	{Path: "/api/v1.0/<start>/<end>", Example: "/api/v1.0/2017-01-01/2017-01-31", Description: "Min, max and average temperature from start through end"},
}

// pathDate validates and parses the yyyy-mm-dd path value name.
func (c *climateControllerImpl) pathDate(r *http.Request, name string) (time.Time, error) {
	s := r.PathValue(name)
	if err := c.validate.Var(s, "required,datetime=2006-01-02"); err != nil {
		return time.Time{}, fmt.Errorf("invalid '%s': %w %q (expected yyyy-mm-dd)", name, service.ErrMalformedDate, s)
	}
	t, err := service.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid '%s': %w", name, err)
	}
	return t, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMalformedDate), errors.Is(err, service.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeEngineError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	switch {
	case errors.Is(err, context.Canceled):
		slog.Debug(op+": request cancelled", "path", r.URL.Path)
	case status >= http.StatusInternalServerError:
		slog.Error(op+" failed", "path", r.URL.Path, "error", err)
	default:
		slog.Warn(op+" rejected", "path", r.URL.Path, "error", err)
	}
	msg := err.Error()
	if status == http.StatusServiceUnavailable {
		msg = "dataset unavailable"
	}
	utils.WriteError(w, status, msg)
}
