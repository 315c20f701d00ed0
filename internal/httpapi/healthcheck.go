package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"surfsup-server/internal/utils"
)

const healthzTimeout = 2 * time.Second

// DatasetProbe reports how many stations the dataset holds. An error means
// the dataset cannot serve requests.
type DatasetProbe func(ctx context.Context) (stations int, err error)

// StationCountProbe probes the dataset by counting its station rows.
func StationCountProbe(db *sql.DB) DatasetProbe {
	return func(ctx context.Context) (int, error) {
		var stations int
		err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM station`).Scan(&stations)
		return stations, err
	}
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	probe DatasetProbe
}

func NewHealthchecker(probe DatasetProbe) healthchecker {
	return &healthcheckerImpl{probe: probe}
}

func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthzTimeout)
	defer cancel()

	stations, err := h.probe(ctx)
	if err != nil {
		slog.Error("failed to check dataset", "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, "dataset unavailable")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "stations": stations})
}

func registerHealthcheck(mux *http.ServeMux, probe DatasetProbe) {
	healthchecker := NewHealthchecker(probe)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
