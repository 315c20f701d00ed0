package controller

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"surfsup-server/internal/modules/climate/types"
	"surfsup-server/internal/modules/climate/views"
	"surfsup-server/internal/utils"
)

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := &views.IndexData{
		Title:      "Hawaii Climate API",
		AnchorDate: c.engine.AnchorDate().Format(types.DateLayout),
		Routes:     routeDocs,
	}
	var buf bytes.Buffer
	if err := views.RenderIndex(&buf, data); err != nil {
		slog.Error("index template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	obs, err := c.engine.PrecipitationLastYear(r.Context())
	if err != nil {
		writeEngineError(w, r, "precipitation", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, views.DatedValues(obs))
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.engine.StationRoster(r.Context())
	if err != nil {
		writeEngineError(w, r, "stations", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, views.StationRecords(stations))
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	obs, err := c.engine.MostActiveStationObservations(r.Context())
	if err != nil {
		writeEngineError(w, r, "tobs", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, views.DatedValues(obs))
}

func (c *climateControllerImpl) handleStatsFrom(w http.ResponseWriter, r *http.Request) {
	start, err := c.pathDate(r, "start")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.writeStats(w, r, start, time.Time{})
}

func (c *climateControllerImpl) handleStatsRange(w http.ResponseWriter, r *http.Request) {
	start, err := c.pathDate(r, "start")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := c.pathDate(r, "end")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.writeStats(w, r, start, end)
}

func (c *climateControllerImpl) writeStats(w http.ResponseWriter, r *http.Request, start, end time.Time) {
	stats, err := c.engine.TemperatureStats(r.Context(), start, end)
	if err != nil {
		writeEngineError(w, r, "temperature stats", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, views.TemperatureSummaries(stats))
}
