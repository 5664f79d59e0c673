package eventhandlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	eventservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/application"
)

type FakeService struct {
	FinalizeEventFunc   func(ctx context.Context, eventID uuid.UUID, actor string) (*eventservice.FinalizeResult, error)
	GetEventResultsFunc func(ctx context.Context, eventID uuid.UUID) (*eventservice.EventResults, error)
	ListEventsFunc      func(ctx context.Context, req eventservice.ListEventsRequest) ([]eventservice.EventView, error)
	ListDueEventsFunc   func(ctx context.Context, cutoff time.Time, limit int) ([]eventservice.EventView, error)
}

func (f *FakeService) FinalizeEvent(ctx context.Context, eventID uuid.UUID, actor string) (*eventservice.FinalizeResult, error) {
	if f.FinalizeEventFunc != nil {
		return f.FinalizeEventFunc(ctx, eventID, actor)
	}
	return &eventservice.FinalizeResult{EventID: eventID, FinalizedBy: actor}, nil
}

func (f *FakeService) GetEventResults(ctx context.Context, eventID uuid.UUID) (*eventservice.EventResults, error) {
	if f.GetEventResultsFunc != nil {
		return f.GetEventResultsFunc(ctx, eventID)
	}
	return &eventservice.EventResults{Event: eventservice.EventView{ID: eventID}, Results: []eventservice.ResultView{}}, nil
}

func (f *FakeService) ListEvents(ctx context.Context, req eventservice.ListEventsRequest) ([]eventservice.EventView, error) {
	if f.ListEventsFunc != nil {
		return f.ListEventsFunc(ctx, req)
	}
	return []eventservice.EventView{}, nil
}

func (f *FakeService) ListDueEvents(ctx context.Context, cutoff time.Time, limit int) ([]eventservice.EventView, error) {
	if f.ListDueEventsFunc != nil {
		return f.ListDueEventsFunc(ctx, cutoff, limit)
	}
	return nil, nil
}

var _ eventservice.Service = (*FakeService)(nil)
