package scorehandlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	scoreservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/application"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/httpx"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
)

const (
	maxUploadBytes = 5 << 20
	dateLayout     = "2006-01-02"
)

// ScoreHandlers serves hole score entry, import and export.
type ScoreHandlers struct {
	service scoreservice.Service
	logger  *slog.Logger
}

// NewScoreHandlers creates the HTTP handlers.
func NewScoreHandlers(service scoreservice.Service, logger *slog.Logger) *ScoreHandlers {
	return &ScoreHandlers{service: service, logger: logger}
}

// Routes mounts the handlers on r.
func (h *ScoreHandlers) Routes(r chi.Router) {
	r.Get("/api/scores", h.HandleGetScores)
	r.Put("/api/scores", h.HandlePutScore)
	r.Post("/api/scores", h.HandlePostScores)
	r.Post("/api/events/{eventID}/scorecard", h.HandleImportScorecard)
	r.Get("/api/admin/scores/export", h.HandleExport)
}

// scoreRequest accepts user_id as a legacy alias of player_id.
type scoreRequest struct {
	EventID    uuid.UUID `json:"event_id"`
	PlayerID   uuid.UUID `json:"player_id"`
	UserID     uuid.UUID `json:"user_id"`
	HoleNumber int       `json:"hole_number"`
	Strokes    int       `json:"strokes"`
	Putts      int       `json:"putts"`
}

func (r scoreRequest) input() scoreservice.ScoreInput {
	playerID := r.PlayerID
	if playerID == uuid.Nil {
		playerID = r.UserID
	}
	return scoreservice.ScoreInput{
		EventID:    r.EventID,
		PlayerID:   playerID,
		HoleNumber: r.HoleNumber,
		Strokes:    r.Strokes,
		Putts:      r.Putts,
	}
}

type bulkRequest struct {
	Scores []scoreRequest `json:"scores"`
}

func (h *ScoreHandlers) HandleGetScores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	eventID, err := uuid.Parse(q.Get("event_id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "event_id is required")
		return
	}

	var playerID *uuid.UUID
	if raw := q.Get("player_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid player_id")
			return
		}
		playerID = &id
	}

	scores, err := h.service.GetScores(r.Context(), eventID, playerID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, scores)
}

func (h *ScoreHandlers) HandlePutScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.SaveScore(r.Context(), req.input())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *ScoreHandlers) HandlePostScores(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Scores) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "scores array is required")
		return
	}

	inputs := make([]scoreservice.ScoreInput, len(req.Scores))
	for i, s := range req.Scores {
		inputs[i] = s.input()
	}

	n, err := h.service.SaveScores(r.Context(), inputs)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "saved": n})
}

func (h *ScoreHandlers) HandleImportScorecard(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	result, err := h.service.ImportScorecard(r.Context(), eventID, header.Filename, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

func (h *ScoreHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := scoreservice.ExportRequest{Format: scoreservice.ExportFormat(q.Get("format"))}

	if raw := q.Get("event_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid event_id")
			return
		}
		req.EventID = &id
	} else {
		from, err1 := time.Parse(dateLayout, q.Get("start_date"))
		to, err2 := time.Parse(dateLayout, q.Get("end_date"))
		if err1 != nil || err2 != nil {
			httpx.WriteError(w, http.StatusBadRequest, "event_id or start_date and end_date are required")
			return
		}
		req.From, req.To = from, to
	}

	file, err := h.service.ExportScores(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

func (h *ScoreHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scoreservice.ErrEventNotFound), errors.Is(err, scoreservice.ErrNoScores):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, scoreservice.ErrEventFinalized):
		httpx.WriteError(w, http.StatusConflict, "event is finalized; scores are locked")
	case errors.Is(err, scoreservice.ErrNotParticipant),
		errors.Is(err, scoreservice.ErrInvalidScorecard):
		httpx.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, scoreservice.ErrInvalidScore),
		errors.Is(err, scoreservice.ErrInvalidExport):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Score request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
