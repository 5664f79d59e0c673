package leaderboardhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	leaderboardservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/application"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/httpx"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
)

// LeaderboardHandlers serves the season standings over HTTP.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	now     func() time.Time
}

// NewLeaderboardHandlers creates the HTTP handlers.
func NewLeaderboardHandlers(service leaderboardservice.Service, logger *slog.Logger) *LeaderboardHandlers {
	return &LeaderboardHandlers{service: service, logger: logger, now: time.Now}
}

// Routes mounts the handlers on r.
func (h *LeaderboardHandlers) Routes(r chi.Router) {
	r.Get("/api/rankings/annual", h.HandleAnnualRanking)
	r.Post("/api/seasons/{year}/players/{playerID}", h.HandleRegisterSeason)
	r.Get("/api/players/{playerID}/handicap-history", h.HandleHandicapHistory)
	r.Get("/api/players/{playerID}/handicap-chart.png", h.HandleHandicapChart)
}

type registerSeasonRequest struct {
	InitialHandicap decimal.Decimal `json:"initial_handicap"`
}

func (h *LeaderboardHandlers) HandleAnnualRanking(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	ranking, err := h.service.GetAnnualRanking(r.Context(), year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"year":     year,
		"rankings": ranking,
	})
}

func (h *LeaderboardHandlers) HandleRegisterSeason(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}
	playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	var req registerSeasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.RegisterSeason(r.Context(), leaderboardservice.SeasonRegistration{
		PlayerID:        playerID,
		Year:            year,
		InitialHandicap: req.InitialHandicap,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, view)
}

func (h *LeaderboardHandlers) HandleHandicapHistory(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid player id")
		return
	}
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	history, err := h.service.GetHandicapHistory(r.Context(), playerID, year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"player_id": playerID,
		"year":      year,
		"history":   history,
	})
}

func (h *LeaderboardHandlers) HandleHandicapChart(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid player id")
		return
	}
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	png, err := h.service.GetHandicapChart(r.Context(), playerID, year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// yearParam reads ?year=, defaulting to the current year.
func (h *LeaderboardHandlers) yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return h.now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid year")
		return 0, false
	}
	return year, true
}

func (h *LeaderboardHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, leaderboardservice.ErrPlayerNotFound):
		httpx.WriteError(w, http.StatusNotFound, "player not found")
	case errors.Is(err, leaderboardservice.ErrSeasonAlreadyRegistered):
		httpx.WriteError(w, http.StatusConflict, "player already registered for season")
	case errors.Is(err, leaderboardservice.ErrInvalidYear),
		errors.Is(err, leaderboardservice.ErrInvalidHandicap):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Leaderboard request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
