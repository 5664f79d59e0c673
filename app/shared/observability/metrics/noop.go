package metrics

import (
	"context"
	"time"
)

// NoOp discards every measurement. Tests use it in place of a registry.
type NoOp struct{}

func (NoOp) RecordOperationAttempt(context.Context, string)                 {}
func (NoOp) RecordOperationSuccess(context.Context, string)                 {}
func (NoOp) RecordOperationFailure(context.Context, string)                 {}
func (NoOp) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOp) RecordEventFinalized(context.Context, int)                      {}
func (NoOp) RecordParticipantExcluded(context.Context, string)              {}
func (NoOp) RecordFinalizeConflict(context.Context)                         {}
