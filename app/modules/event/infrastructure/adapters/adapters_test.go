package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	eventdomain "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/domain"
	eventdb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories"
	leaderboarddb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/repositories"
	scoreservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/application"
	scoredb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories"
)

type stubScoreRepo struct {
	scoredb.Repository
	rows []scoredb.Score
	err  error
}

func (s *stubScoreRepo) ListScoresForPlayers(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerIDs []uuid.UUID) ([]scoredb.Score, error) {
	return s.rows, s.err
}

type stubSeasonRepo struct {
	leaderboarddb.Repository
	stats   map[uuid.UUID]*leaderboarddb.SeasonStats
	deltas  []leaderboarddb.SeasonDelta
	history []*leaderboarddb.HandicapHistory
}

func (s *stubSeasonRepo) GetSeasonStats(ctx context.Context, db bun.IDB, year int, playerIDs []uuid.UUID) (map[uuid.UUID]*leaderboarddb.SeasonStats, error) {
	return s.stats, nil
}

func (s *stubSeasonRepo) ApplySeasonDeltas(ctx context.Context, db bun.IDB, deltas []leaderboarddb.SeasonDelta) error {
	s.deltas = append(s.deltas, deltas...)
	return nil
}

func (s *stubSeasonRepo) InsertHandicapHistory(ctx context.Context, db bun.IDB, entries []*leaderboarddb.HandicapHistory) error {
	s.history = append(s.history, entries...)
	return nil
}

func TestScoreReader_ListHoleScores(t *testing.T) {
	eventID := uuid.New()
	alice, bob := uuid.New(), uuid.New()

	t.Run("groups by player", func(t *testing.T) {
		reader := NewScoreReader(&stubScoreRepo{rows: []scoredb.Score{
			{EventID: eventID, PlayerID: alice, HoleNumber: 1, Strokes: 4},
			{EventID: eventID, PlayerID: alice, HoleNumber: 2, Strokes: 5},
			{EventID: eventID, PlayerID: bob, HoleNumber: 1, Strokes: 3},
		}})

		got, err := reader.ListHoleScores(context.Background(), nil, eventID, []uuid.UUID{alice, bob})
		require.NoError(t, err)
		assert.Equal(t, []eventdomain.HoleScore{{HoleNumber: 1, Strokes: 4}, {HoleNumber: 2, Strokes: 5}}, got[alice])
		assert.Equal(t, []eventdomain.HoleScore{{HoleNumber: 1, Strokes: 3}}, got[bob])
	})

	t.Run("propagates errors", func(t *testing.T) {
		reader := NewScoreReader(&stubScoreRepo{err: errors.New("db down")})
		_, err := reader.ListHoleScores(context.Background(), nil, eventID, []uuid.UUID{alice})
		require.Error(t, err)
	})
}

func TestSeasonStore(t *testing.T) {
	eventID := uuid.New()
	alice, bob := uuid.New(), uuid.New()
	repo := &stubSeasonRepo{stats: map[uuid.UUID]*leaderboarddb.SeasonStats{
		alice: {PlayerID: alice, Year: 2026, CurrentHandicap: decimal.RequireFromString("12.5")},
	}}
	store := NewSeasonStore(repo)

	handicaps, err := store.GetHandicaps(context.Background(), nil, 2026, []uuid.UUID{alice, bob})
	require.NoError(t, err)
	require.Len(t, handicaps, 1)
	assert.True(t, handicaps[alice].Equal(decimal.RequireFromString("12.5")))

	results := []eventdomain.Result{
		{PlayerID: alice, Points: 16, HandicapBefore: decimal.RequireFromString("12.5"), HandicapAfter: decimal.RequireFromString("7.7")},
	}
	require.NoError(t, store.ApplyResults(context.Background(), nil, 2026, results))
	require.Len(t, repo.deltas, 1)
	assert.Equal(t, alice, repo.deltas[0].PlayerID)
	assert.Equal(t, 2026, repo.deltas[0].Year)
	assert.Equal(t, 16, repo.deltas[0].Points)
	assert.True(t, repo.deltas[0].HandicapAfter.Equal(decimal.RequireFromString("7.7")))

	require.NoError(t, store.AppendHandicapHistory(context.Background(), nil, eventID, 2026, results, "in_season_update"))
	require.Len(t, repo.history, 1)
	assert.Equal(t, eventID, repo.history[0].EventID)
	assert.Equal(t, "in_season_update", repo.history[0].Reason)
}

func TestScoreEventLookup_GetEventForScoreWrite(t *testing.T) {
	eventID := uuid.New()
	player := uuid.New()

	t.Run("maps event state", func(t *testing.T) {
		lookup := NewScoreEventLookup(&eventdb.FakeRepository{
			GetEventForShareFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*eventdb.Event, error) {
				return &eventdb.Event{ID: id, Name: "April Cup", IsFinalized: true}, nil
			},
			ListParticipantsFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) ([]eventdb.Participant, error) {
				return []eventdb.Participant{{PlayerID: player, PlayerName: "Kim"}}, nil
			},
		})

		state, err := lookup.GetEventForScoreWrite(context.Background(), nil, eventID)
		require.NoError(t, err)
		assert.Equal(t, "April Cup", state.Name)
		assert.True(t, state.IsFinalized)
		assert.Equal(t, map[uuid.UUID]string{player: "Kim"}, state.Participants)
	})

	t.Run("not found", func(t *testing.T) {
		lookup := NewScoreEventLookup(&eventdb.FakeRepository{})
		_, err := lookup.GetEventForScoreWrite(context.Background(), nil, eventID)
		assert.ErrorIs(t, err, scoreservice.ErrEventNotFound)
	})
}
