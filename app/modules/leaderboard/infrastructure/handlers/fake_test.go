package leaderboardhandlers

import (
	"context"

	"github.com/google/uuid"

	leaderboardservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/application"
)

type FakeService struct {
	GetAnnualRankingFunc   func(ctx context.Context, year int) ([]leaderboardservice.AnnualRankingEntry, error)
	RegisterSeasonFunc     func(ctx context.Context, reg leaderboardservice.SeasonRegistration) (*leaderboardservice.SeasonView, error)
	GetHandicapHistoryFunc func(ctx context.Context, playerID uuid.UUID, year int) ([]leaderboardservice.HandicapHistoryView, error)
	GetHandicapChartFunc   func(ctx context.Context, playerID uuid.UUID, year int) ([]byte, error)
}

func (f *FakeService) GetAnnualRanking(ctx context.Context, year int) ([]leaderboardservice.AnnualRankingEntry, error) {
	if f.GetAnnualRankingFunc != nil {
		return f.GetAnnualRankingFunc(ctx, year)
	}
	return nil, nil
}

func (f *FakeService) RegisterSeason(ctx context.Context, reg leaderboardservice.SeasonRegistration) (*leaderboardservice.SeasonView, error) {
	if f.RegisterSeasonFunc != nil {
		return f.RegisterSeasonFunc(ctx, reg)
	}
	return &leaderboardservice.SeasonView{PlayerID: reg.PlayerID, Year: reg.Year}, nil
}

func (f *FakeService) GetHandicapHistory(ctx context.Context, playerID uuid.UUID, year int) ([]leaderboardservice.HandicapHistoryView, error) {
	if f.GetHandicapHistoryFunc != nil {
		return f.GetHandicapHistoryFunc(ctx, playerID, year)
	}
	return nil, nil
}

func (f *FakeService) GetHandicapChart(ctx context.Context, playerID uuid.UUID, year int) ([]byte, error) {
	if f.GetHandicapChartFunc != nil {
		return f.GetHandicapChartFunc(ctx, playerID, year)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

var _ leaderboardservice.Service = (*FakeService)(nil)
