// internal/server/routes.go
package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mcp-meal-map/internal/models"
	"mcp-meal-map/internal/query"
)

type HealthResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	Error     string `json:"error,omitempty"`
}

// handleHealth reports 503 after a failed load. Data endpoints keep
// answering with empty collections in that state.
func (s *MealMapServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", SessionID: s.session.ID}
	if !s.session.Healthy() {
		resp.Status = "degraded"
		resp.Error = s.session.Err.Error()
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}

func (s *MealMapServer) handleFrequency(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.session.Snapshot.Frequency())
}

func (s *MealMapServer) handleHourlyFrequency(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.session.Snapshot.HourlyFrequency())
}

func (s *MealMapServer) handleNutrition(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.session.Snapshot.Nutrition())
}

func (s *MealMapServer) handleTimeOfDay(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.session.Snapshot.TimeOfDay())
}

type StatsResponse struct {
	query.Stats
	SessionID  string `json:"session_id"`
	DurationMS int64  `json:"load_duration_ms"`
	Error      string `json:"error,omitempty"`
}

func (s *MealMapServer) stats() StatsResponse {
	resp := StatsResponse{
		Stats:      s.session.Snapshot.Stats(),
		SessionID:  s.session.ID,
		DurationMS: s.session.Duration.Milliseconds(),
	}
	if s.session.Err != nil {
		resp.Error = s.session.Err.Error()
	}
	return resp
}

func (s *MealMapServer) handleStats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.stats())
}

func (s *MealMapServer) handleSlot(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		_ = render.Render(w, r, NewErrorResponse(InvalidParameter("day", "must be an integer")))
		return
	}
	hour, err := strconv.Atoi(chi.URLParam(r, "hour"))
	if err != nil {
		_ = render.Render(w, r, NewErrorResponse(InvalidParameter("hour", "must be an integer")))
		return
	}

	render.JSON(w, r, s.lookup(models.Key{Day: day, Hour: hour}))
}

func (s *MealMapServer) lookup(key models.Key) models.MergedView {
	view := s.session.Snapshot.Lookup(key)
	s.metrics.Lookup(view.HasFrequency)
	return view
}
