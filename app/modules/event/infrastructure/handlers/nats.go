package eventhandlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	eventservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/application"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
)

// CorrelationHeader carries the caller's correlation id on NATS requests.
const CorrelationHeader = "Correlation-ID"

const natsFinalizeTimeout = 30 * time.Second

// FinalizeRequest is the payload of a finalize command.
type FinalizeRequest struct {
	EventID string `json:"event_id"`
	Actor   string `json:"actor,omitempty"`
}

// FinalizeReply answers a finalize command. Code is empty on success.
type FinalizeReply struct {
	Success bool                         `json:"success"`
	Code    string                       `json:"code,omitempty"`
	Error   string                       `json:"error,omitempty"`
	Result  *eventservice.FinalizeResult `json:"result,omitempty"`
}

// HandleFinalizeRequest handles finalize commands sent via NATS request/reply.
func (h *EventHandlers) HandleFinalizeRequest(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), natsFinalizeTimeout)
	defer cancel()

	if msg.Header != nil {
		if id := msg.Header.Get(CorrelationHeader); id != "" {
			ctx = attr.WithCorrelationID(ctx, id)
		}
	}
	ctx, span := h.tracer.Start(ctx, "EventHandlers.HandleFinalizeRequest")
	defer span.End()

	reply := h.finalize(ctx, msg.Data)

	data, err := json.Marshal(reply)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to marshal finalize reply", attr.Error(err))
		return
	}
	if msg.Reply == "" {
		h.logger.WarnContext(ctx, "Finalize request without reply subject",
			attr.Bool("success", reply.Success),
			attr.ExtractCorrelationID(ctx),
		)
		return
	}
	if err := msg.Respond(data); err != nil {
		h.logger.ErrorContext(ctx, "Failed to respond to finalize request",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
	}
}

func (h *EventHandlers) finalize(ctx context.Context, data []byte) FinalizeReply {
	var req FinalizeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return FinalizeReply{Code: CodeBadRequest, Error: "invalid request payload"}
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return FinalizeReply{Code: CodeBadRequest, Error: "invalid event_id"}
	}

	res, err := h.service.FinalizeEvent(ctx, eventID, req.Actor)
	if err != nil {
		code, _ := classify(err)
		h.logger.WarnContext(ctx, "Finalize request rejected",
			attr.EventID(req.EventID),
			attr.String("code", code),
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
		msg := err.Error()
		if code == CodeInternal {
			msg = "internal error"
		}
		return FinalizeReply{Code: code, Error: msg}
	}

	return FinalizeReply{Success: true, Result: res}
}
