package eventrouter

import (
	"github.com/nats-io/nats.go"

	eventhandlers "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/handlers"
)

const (
	// FinalizeRequestSubject is the NATS subject for finalize commands.
	FinalizeRequestSubject = "event.finalize.requested.v1"

	// QueueGroup is the queue group name for load balancing.
	QueueGroup = "backend"
)

// Router manages NATS subscriptions for the event module.
type Router struct {
	handlers    eventhandlers.Handlers
	nc          *nats.Conn
	finalizeSub *nats.Subscription
}

// NewRouter creates a new event router.
func NewRouter(handlers eventhandlers.Handlers, nc *nats.Conn) *Router {
	return &Router{
		handlers: handlers,
		nc:       nc,
	}
}

// Start subscribes to the event subjects. Each command is delivered to one
// instance of the queue group.
func (r *Router) Start() error {
	var err error

	r.finalizeSub, err = r.nc.QueueSubscribe(
		FinalizeRequestSubject,
		QueueGroup,
		r.handlers.HandleFinalizeRequest,
	)
	return err
}

// Stop unsubscribes from all NATS subjects.
func (r *Router) Stop() error {
	if r.finalizeSub == nil {
		return nil
	}
	err := r.finalizeSub.Unsubscribe()
	r.finalizeSub = nil
	return err
}
