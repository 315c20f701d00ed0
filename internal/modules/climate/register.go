package climate

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"surfsup-server/internal/config"
	"surfsup-server/internal/modules/climate/controller"
	"surfsup-server/internal/modules/climate/repository"
	"surfsup-server/internal/modules/climate/service"
	"surfsup-server/internal/modules/climate/types"
)

// RegisterFeature wires the climate routes onto mux. The anchor date is
// resolved here, once, and stays fixed for the life of the process.
func RegisterFeature(ctx context.Context, mux *http.ServeMux, db *sql.DB, cfg config.Config) error {
	climateRepository := repository.NewBreakerStore(repository.NewRepository(db), repository.BreakerSettings{
		Name:        "climate-dataset",
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
	})

	anchor, err := service.ResolveAnchor(ctx, climateRepository, cfg.AnchorDate)
	if err != nil {
		return err
	}
	engine := service.NewEngine(climateRepository, anchor, cfg.LookbackDays)
	slog.Info("climate engine ready",
		"anchorDate", engine.AnchorDate().Format(types.DateLayout),
		"windowStart", engine.WindowStart(),
	)

	climateController := controller.NewClimateController(engine)
	climateController.RegisterRoutes(mux)
	return nil
}
