package eventservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/goleak"

	eventdomain "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/domain"
	eventdb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testYear = 2026

var fixedNow = time.Date(2026, 4, 12, 18, 0, 0, 0, time.UTC)

type fixture struct {
	eventID  uuid.UUID
	courseID uuid.UUID
	alice    uuid.UUID
	bob      uuid.UUID
	carol    uuid.UUID
	dave     uuid.UUID
	erin     uuid.UUID
	store    *memEvents
	scores   *FakeScoreReader
	seasons  *FakeSeasonStore
	metrics  *countingMetrics
	service  *EventService
}

func standardHoles(courseID uuid.UUID) []eventdb.CourseHole {
	pars := []int{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5, 4, 4, 3, 4, 5}
	holes := make([]eventdb.CourseHole, len(pars))
	for i, p := range pars {
		holes[i] = eventdb.CourseHole{CourseID: courseID, HoleNumber: i + 1, Par: p}
	}
	return holes
}

func round(strokes int, skip ...int) []eventdomain.HoleScore {
	skipped := map[int]bool{}
	for _, h := range skip {
		skipped[h] = true
	}
	var out []eventdomain.HoleScore
	for hole := 1; hole <= eventdomain.HolesPerRound; hole++ {
		if skipped[hole] {
			continue
		}
		out = append(out, eventdomain.HoleScore{HoleNumber: hole, Strokes: strokes})
	}
	return out
}

func newFixture() *fixture {
	f := &fixture{
		eventID:  uuid.New(),
		courseID: uuid.New(),
		alice:    uuid.New(),
		bob:      uuid.New(),
		carol:    uuid.New(),
		dave:     uuid.New(),
		erin:     uuid.New(),
		store:    newMemEvents(),
		seasons:  NewFakeSeasonStore(),
		metrics:  &countingMetrics{},
	}

	f.store.events[f.eventID] = &eventdb.Event{
		ID:        f.eventID,
		Name:      "April Major",
		CourseID:  f.courseID,
		EventType: string(eventdomain.TierMajor),
		Year:      testYear,
		Status:    eventdb.StatusInProgress,
	}
	f.store.holes[f.courseID] = standardHoles(f.courseID)
	f.store.participants[f.eventID] = []eventdb.Participant{
		{PlayerID: f.alice, PlayerName: "Alice"},
		{PlayerID: f.bob, PlayerName: "Bob"},
		{PlayerID: f.carol, PlayerName: "Carol"},
		{PlayerID: f.dave, PlayerName: "Dave"},
		{PlayerID: f.erin, PlayerName: "Erin"},
	}

	f.scores = &FakeScoreReader{Scores: map[uuid.UUID]map[uuid.UUID][]eventdomain.HoleScore{
		f.eventID: {
			f.alice: round(4),
			f.bob:   round(5),
			f.carol: round(5, 7, 12),
			f.dave:  round(5),
			f.erin:  round(3),
		},
	}}

	f.seasons.Register(f.alice, testYear, "12.37", 10, 2)
	f.seasons.Register(f.bob, testYear, "20", 0, 0)
	f.seasons.Register(f.carol, testYear, "8", 5, 1)
	f.seasons.Register(f.dave, testYear, "5", 0, 0)

	f.service = NewEventService(
		f.store.Repo(),
		f.scores,
		f.seasons,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		f.metrics,
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func TestEventService_FinalizeEvent(t *testing.T) {
	fx := newFixture()

	res, err := fx.service.FinalizeEvent(context.Background(), fx.eventID, "admin")
	require.NoError(t, err)

	type row struct {
		Player uuid.UUID
		Gross  int
		Net    string
		Rank   int
		Points int
		After  string
		Under  string
	}
	var got []row
	for _, r := range res.Results {
		got = append(got, row{r.PlayerID, r.GrossScore, r.NetScore.String(), r.Rank, r.Points, r.HandicapAfter.String(), r.UnderParStrokes.String()})
	}
	want := []row{
		{fx.alice, 72, "59.63", 1, 21, "0", "12.37"},
		{fx.bob, 90, "70", 2, 12, "14.4", "2"},
		{fx.carol, 80, "72", 3, 7, "7.2", "0"},
		{fx.dave, 90, "85", 4, 4, "5", "0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected results (-want +got):\n%s", diff)
	}

	assert.Equal(t, 72, res.CoursePar)
	assert.Equal(t, "admin", res.FinalizedBy)
	assert.Equal(t, fixedNow, res.FinalizedAt)
	assert.Equal(t, []ExcludedParticipant{{PlayerID: fx.erin, PlayerName: "Erin", Reason: ReasonMissingSeasonStats}}, res.Excluded)

	t.Run("event is completed", func(t *testing.T) {
		e := fx.store.event(fx.eventID)
		assert.True(t, e.IsFinalized)
		assert.Equal(t, eventdb.StatusCompleted, e.Status)
		assert.Equal(t, "admin", e.FinalizedBy)
		require.NotNil(t, e.FinalizedAt)
		assert.Equal(t, fixedNow, *e.FinalizedAt)
	})

	t.Run("results are stored for ranked players only", func(t *testing.T) {
		stored := fx.store.storedResults(fx.eventID)
		assert.Len(t, stored, 4)
		assert.NotContains(t, stored, fx.erin)
	})

	t.Run("season stats accumulate", func(t *testing.T) {
		alice := fx.seasons.Row(fx.alice, testYear)
		assert.Equal(t, 31, alice.points)
		assert.Equal(t, 3, alice.participation)
		assert.True(t, alice.handicap.IsZero())

		dave := fx.seasons.Row(fx.dave, testYear)
		assert.Equal(t, 4, dave.points)
		assert.Equal(t, 1, dave.participation)
		assert.True(t, dave.handicap.Equal(decimal.NewFromInt(5)))
	})

	t.Run("history only for changed handicaps", func(t *testing.T) {
		history := fx.seasons.History()
		require.Len(t, history, 3)
		for _, h := range history {
			assert.NotEqual(t, fx.dave, h.playerID)
			assert.Equal(t, HandicapHistoryReason, h.reason)
			assert.Equal(t, fx.eventID, h.eventID)
		}
	})

	t.Run("commit point is last", func(t *testing.T) {
		trace := fx.store.Trace()
		require.NotEmpty(t, trace)
		assert.Equal(t, "LockEvent", trace[0])
		assert.Equal(t, "MarkFinalized", trace[len(trace)-1])
	})

	assert.Equal(t, int64(1), fx.metrics.finalized.Load())
	assert.Equal(t, int64(1), fx.metrics.excluded.Load())
}

func TestEventService_FinalizeEventTwice(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.FinalizeEvent(context.Background(), fx.eventID, "")
	require.NoError(t, err)
	before := fx.seasons.Row(fx.alice, testYear)

	_, err = fx.service.FinalizeEvent(context.Background(), fx.eventID, "")
	require.ErrorIs(t, err, ErrAlreadyFinalized)

	assert.Len(t, fx.store.storedResults(fx.eventID), 4)
	assert.Equal(t, before, fx.seasons.Row(fx.alice, testYear))
	assert.Len(t, fx.seasons.History(), 3)
	assert.Equal(t, int64(1), fx.metrics.conflicts.Load())
}

func TestEventService_FinalizeEventConcurrentSameEvent(t *testing.T) {
	fx := newFixture()

	const callers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.service.FinalizeEvent(context.Background(), fx.eventID, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrAlreadyFinalized):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)
	assert.Equal(t, 3, fx.seasons.Row(fx.alice, testYear).participation)
	assert.Equal(t, 0, fx.service.locks.size())
}

func TestEventService_FinalizeEventsSharingPlayer(t *testing.T) {
	fx := newFixture()

	otherID := uuid.New()
	frank := uuid.New()
	fx.store.events[otherID] = &eventdb.Event{
		ID:        otherID,
		Name:      "April Regular",
		CourseID:  fx.courseID,
		EventType: string(eventdomain.TierRegular),
		Year:      testYear,
	}
	fx.store.participants[otherID] = []eventdb.Participant{
		{PlayerID: fx.alice, PlayerName: "Alice"},
		{PlayerID: frank, PlayerName: "Frank"},
	}
	fx.scores.Scores[otherID] = map[uuid.UUID][]eventdomain.HoleScore{
		fx.alice: round(4),
		frank:    round(6),
	}
	fx.seasons.Register(frank, testYear, "0", 0, 0)
	// Keep Alice the event winner whichever event revises her handicap first.
	fx.scores.Scores[fx.eventID][fx.bob] = round(6)

	var wg sync.WaitGroup
	for _, id := range []uuid.UUID{fx.eventID, otherID} {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := fx.service.FinalizeEvent(context.Background(), id, "")
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	alice := fx.seasons.Row(fx.alice, testYear)
	assert.Equal(t, 10+21+16, alice.points)
	assert.Equal(t, 2+2, alice.participation)
}

func TestEventService_FinalizeEventErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(fx *fixture) uuid.UUID
		wantErr error
	}{
		{
			name:    "nil id",
			setup:   func(fx *fixture) uuid.UUID { return uuid.Nil },
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "unknown event",
			setup:   func(fx *fixture) uuid.UUID { return uuid.New() },
			wantErr: ErrEventNotFound,
		},
		{
			name: "already finalized",
			setup: func(fx *fixture) uuid.UUID {
				fx.store.events[fx.eventID].IsFinalized = true
				return fx.eventID
			},
			wantErr: ErrAlreadyFinalized,
		},
		{
			name: "course with missing holes",
			setup: func(fx *fixture) uuid.UUID {
				fx.store.holes[fx.courseID] = fx.store.holes[fx.courseID][:9]
				return fx.eventID
			},
			wantErr: ErrDataIntegrity,
		},
		{
			name: "no participants",
			setup: func(fx *fixture) uuid.UUID {
				fx.store.participants[fx.eventID] = nil
				return fx.eventID
			},
			wantErr: ErrDataIntegrity,
		},
		{
			name: "nobody has season stats",
			setup: func(fx *fixture) uuid.UUID {
				fx.store.participants[fx.eventID] = []eventdb.Participant{{PlayerID: fx.erin, PlayerName: "Erin"}}
				return fx.eventID
			},
			wantErr: ErrDataIntegrity,
		},
		{
			name: "negative strokes",
			setup: func(fx *fixture) uuid.UUID {
				fx.scores.Scores[fx.eventID][fx.bob] = []eventdomain.HoleScore{{HoleNumber: 3, Strokes: -2}}
				return fx.eventID
			},
			wantErr: ErrDataIntegrity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			id := tt.setup(fx)

			res, err := fx.service.FinalizeEvent(context.Background(), id, "")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			assert.NotContains(t, fx.store.Trace(), "MarkFinalized")
			assert.Equal(t, 2, fx.seasons.Row(fx.alice, testYear).participation)
		})
	}
}

func TestEventService_FinalizeEventDataIntegrityDetail(t *testing.T) {
	fx := newFixture()
	fx.scores.Scores[fx.eventID][fx.bob] = []eventdomain.HoleScore{{HoleNumber: 19, Strokes: 4}}

	_, err := fx.service.FinalizeEvent(context.Background(), fx.eventID, "")

	var dataErr *DataIntegrityError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, fx.bob, dataErr.PlayerID)
	assert.ErrorIs(t, err, eventdomain.ErrInvalidScore)
}

func TestEventService_FinalizeEventLosesCommitRace(t *testing.T) {
	fx := newFixture()
	repo := fx.store.Repo()
	repo.MarkFinalizedFn = func(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time, by string) error {
		return eventdb.ErrNoRowsAffected
	}
	fx.service.repo = repo

	_, err := fx.service.FinalizeEvent(context.Background(), fx.eventID, "")
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestEventService_FinalizeEventStorageFailure(t *testing.T) {
	fx := newFixture()
	fx.seasons.ApplyResultsFunc = func(ctx context.Context, db bun.IDB, year int, results []eventdomain.Result) error {
		return errors.New("connection reset")
	}

	_, err := fx.service.FinalizeEvent(context.Background(), fx.eventID, "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDataIntegrity))
	assert.False(t, fx.store.event(fx.eventID).IsFinalized)
	assert.NotContains(t, fx.store.Trace(), "MarkFinalized")
}

func TestEventService_GetEventResults(t *testing.T) {
	fx := newFixture()
	repo := fx.store.Repo()
	repo.ListResultsFn = func(ctx context.Context, db bun.IDB, id uuid.UUID) ([]eventdb.ResultRow, error) {
		return []eventdb.ResultRow{
			{PlayerID: fx.alice, PlayerName: "Alice", Gender: "F", Rank: 1, Points: 21},
			{PlayerID: fx.bob, PlayerName: "Bob", Gender: "M", Rank: 2, Points: 12},
		}, nil
	}
	fx.service.repo = repo

	res, err := fx.service.GetEventResults(context.Background(), fx.eventID)
	require.NoError(t, err)
	assert.Equal(t, "April Major", res.Event.Name)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "F", res.Results[0].Gender)
	assert.Equal(t, 2, res.Results[1].Rank)

	_, err = fx.service.GetEventResults(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventService_ListEvents(t *testing.T) {
	fx := newFixture()

	year := testYear
	events, err := fx.service.ListEvents(context.Background(), ListEventsRequest{Year: &year})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, fx.eventID, events[0].ID)

	_, err = fx.service.ListEvents(context.Background(), ListEventsRequest{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestEventService_ListDueEventsDefaultsLimit(t *testing.T) {
	var gotLimit int
	fx := newFixture()
	repo := fx.store.Repo()
	repo.ListDueEventsFn = func(ctx context.Context, db bun.IDB, cutoff time.Time, limit int) ([]eventdb.Event, error) {
		gotLimit = limit
		return nil, nil
	}
	fx.service.repo = repo

	_, err := fx.service.ListDueEvents(context.Background(), fixedNow, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultDueLimit, gotLimit)
}

func TestEventLocksReleaseEntries(t *testing.T) {
	locks := newEventLocks()
	id := uuid.New()

	unlock := locks.lock(id)
	assert.Equal(t, 1, locks.size())

	acquired := make(chan struct{})
	go func() {
		release := locks.lock(id)
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired lock while first held it")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	<-acquired
	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, time.Millisecond)
}
