package eventhandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/trace"

	eventservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/application"
)

// Handlers is the transport surface of the event module.
type Handlers interface {
	Routes(r chi.Router, finalizeLimit func(http.Handler) http.Handler)
	HandleFinalizeRequest(msg *nats.Msg)
}

// EventHandlers serves finalize and result queries over HTTP and NATS.
type EventHandlers struct {
	service eventservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewEventHandlers creates a new EventHandlers instance.
func NewEventHandlers(service eventservice.Service, logger *slog.Logger, tracer trace.Tracer) *EventHandlers {
	return &EventHandlers{service: service, logger: logger, tracer: tracer}
}

// Error codes carried in NATS replies.
const (
	CodeNotFound      = "not_found"
	CodeConflict      = "conflict"
	CodeDataIntegrity = "data_integrity"
	CodeBadRequest    = "bad_request"
	CodeInternal      = "internal"
)

// classify maps a service error to its NATS code and HTTP status.
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, eventservice.ErrEventNotFound):
		return CodeNotFound, http.StatusNotFound
	case errors.Is(err, eventservice.ErrAlreadyFinalized):
		return CodeConflict, http.StatusConflict
	case errors.Is(err, eventservice.ErrDataIntegrity):
		return CodeDataIntegrity, http.StatusUnprocessableEntity
	case errors.Is(err, eventservice.ErrInvalidRequest):
		return CodeBadRequest, http.StatusBadRequest
	default:
		return CodeInternal, http.StatusInternalServerError
	}
}
