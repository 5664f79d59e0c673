package scorehandlers

import (
	"context"

	"github.com/google/uuid"

	scoreservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/application"
)

type FakeService struct {
	GetScoresFunc       func(ctx context.Context, eventID uuid.UUID, playerID *uuid.UUID) ([]scoreservice.ScoreView, error)
	SaveScoreFunc       func(ctx context.Context, in scoreservice.ScoreInput) (*scoreservice.ScoreView, error)
	SaveScoresFunc      func(ctx context.Context, in []scoreservice.ScoreInput) (int, error)
	ImportScorecardFunc func(ctx context.Context, eventID uuid.UUID, filename string, data []byte) (*scoreservice.ImportResult, error)
	ExportScoresFunc    func(ctx context.Context, req scoreservice.ExportRequest) (*scoreservice.ExportFile, error)
}

func (f *FakeService) GetScores(ctx context.Context, eventID uuid.UUID, playerID *uuid.UUID) ([]scoreservice.ScoreView, error) {
	if f.GetScoresFunc != nil {
		return f.GetScoresFunc(ctx, eventID, playerID)
	}
	return []scoreservice.ScoreView{}, nil
}

func (f *FakeService) SaveScore(ctx context.Context, in scoreservice.ScoreInput) (*scoreservice.ScoreView, error) {
	if f.SaveScoreFunc != nil {
		return f.SaveScoreFunc(ctx, in)
	}
	return &scoreservice.ScoreView{EventID: in.EventID, PlayerID: in.PlayerID, HoleNumber: in.HoleNumber, Strokes: in.Strokes}, nil
}

func (f *FakeService) SaveScores(ctx context.Context, in []scoreservice.ScoreInput) (int, error) {
	if f.SaveScoresFunc != nil {
		return f.SaveScoresFunc(ctx, in)
	}
	return len(in), nil
}

func (f *FakeService) ImportScorecard(ctx context.Context, eventID uuid.UUID, filename string, data []byte) (*scoreservice.ImportResult, error) {
	if f.ImportScorecardFunc != nil {
		return f.ImportScorecardFunc(ctx, eventID, filename, data)
	}
	return &scoreservice.ImportResult{EventID: eventID}, nil
}

func (f *FakeService) ExportScores(ctx context.Context, req scoreservice.ExportRequest) (*scoreservice.ExportFile, error) {
	if f.ExportScoresFunc != nil {
		return f.ExportScoresFunc(ctx, req)
	}
	return &scoreservice.ExportFile{Filename: "scores.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("a,b\n")}, nil
}

var _ scoreservice.Service = (*FakeService)(nil)
