package eventhandlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	eventservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/application"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/httpx"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
)

// Routes mounts the HTTP handlers. finalizeLimit wraps only the finalize route.
func (h *EventHandlers) Routes(r chi.Router, finalizeLimit func(http.Handler) http.Handler) {
	r.Get("/api/events", h.HandleListEvents)
	r.Get("/api/events/{eventID}/results", h.HandleGetResults)
	if finalizeLimit == nil {
		r.Post("/api/events/{eventID}/finalize", h.HandleFinalize)
		return
	}
	r.With(finalizeLimit).Post("/api/events/{eventID}/finalize", h.HandleFinalize)
}

func (h *EventHandlers) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	res, err := h.service.FinalizeEvent(r.Context(), eventID, httpx.Actor(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *EventHandlers) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	res, err := h.service.GetEventResults(r.Context(), eventID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *EventHandlers) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := eventservice.ListEventsRequest{Status: q.Get("status")}

	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		req.Year = &year
	}
	if raw := q.Get("finalized"); raw != "" {
		finalized, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid finalized flag")
			return
		}
		req.Finalized = &finalized
	}

	events, err := h.service.ListEvents(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, events)
}

func (h *EventHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code, status := classify(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Event request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		httpx.WriteError(w, status, "internal error")
		return
	}
	if code == CodeDataIntegrity {
		h.logger.WarnContext(r.Context(), "Finalize blocked by data integrity error",
			attr.ExtractCorrelationID(r.Context()),
			attr.Error(err),
		)
	}
	httpx.WriteError(w, status, err.Error())
}
