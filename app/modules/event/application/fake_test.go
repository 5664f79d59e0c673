package eventservice

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	eventdomain "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/domain"
	eventdb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/metrics"
)

// ------------------------
// In-memory event store
// ------------------------

// memEvents backs an eventdb.FakeRepository with maps so finalize can run
// end to end without a database.
type memEvents struct {
	mu           sync.Mutex
	events       map[uuid.UUID]*eventdb.Event
	holes        map[uuid.UUID][]eventdb.CourseHole
	participants map[uuid.UUID][]eventdb.Participant
	results      map[uuid.UUID]map[uuid.UUID]eventdb.EventResult
	trace        []string
}

func newMemEvents() *memEvents {
	return &memEvents{
		events:       map[uuid.UUID]*eventdb.Event{},
		holes:        map[uuid.UUID][]eventdb.CourseHole{},
		participants: map[uuid.UUID][]eventdb.Participant{},
		results:      map[uuid.UUID]map[uuid.UUID]eventdb.EventResult{},
	}
}

func (m *memEvents) record(step string) {
	m.trace = append(m.trace, step)
}

func (m *memEvents) Trace() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.trace))
	copy(out, m.trace)
	return out
}

func (m *memEvents) event(id uuid.UUID) eventdb.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.events[id]
}

func (m *memEvents) storedResults(id uuid.UUID) map[uuid.UUID]eventdb.EventResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]eventdb.EventResult, len(m.results[id]))
	for k, v := range m.results[id] {
		out[k] = v
	}
	return out
}

func (m *memEvents) getEvent(step string) func(ctx context.Context, db bun.IDB, id uuid.UUID) (*eventdb.Event, error) {
	return func(ctx context.Context, db bun.IDB, id uuid.UUID) (*eventdb.Event, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.record(step)
		e, ok := m.events[id]
		if !ok {
			return nil, eventdb.ErrNotFound
		}
		cp := *e
		return &cp, nil
	}
}

func (m *memEvents) Repo() *eventdb.FakeRepository {
	return &eventdb.FakeRepository{
		LockEventFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.record("LockEvent")
			return nil
		},
		GetEventFn:          m.getEvent("GetEvent"),
		GetEventForUpdateFn: m.getEvent("GetEventForUpdate"),
		GetEventForShareFn:  m.getEvent("GetEventForShare"),
		ListCourseHolesFn: func(ctx context.Context, db bun.IDB, courseID uuid.UUID) ([]eventdb.CourseHole, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.record("ListCourseHoles")
			return m.holes[courseID], nil
		},
		ListParticipantsFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) ([]eventdb.Participant, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.record("ListParticipants")
			return m.participants[id], nil
		},
		UpsertResultsFn: func(ctx context.Context, db bun.IDB, results []eventdb.EventResult) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.record("UpsertResults")
			for _, r := range results {
				if m.results[r.EventID] == nil {
					m.results[r.EventID] = map[uuid.UUID]eventdb.EventResult{}
				}
				m.results[r.EventID][r.PlayerID] = r
			}
			return nil
		},
		MarkFinalizedFn: func(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time, by string) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.record("MarkFinalized")
			e, ok := m.events[id]
			if !ok || e.IsFinalized {
				return eventdb.ErrNoRowsAffected
			}
			e.IsFinalized = true
			e.FinalizedAt = &at
			e.FinalizedBy = by
			e.Status = eventdb.StatusCompleted
			return nil
		},
		ListEventsFn: func(ctx context.Context, db bun.IDB, filter eventdb.ListFilter) ([]eventdb.Event, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			var out []eventdb.Event
			for _, e := range m.events {
				if filter.Year != nil && e.Year != *filter.Year {
					continue
				}
				out = append(out, *e)
			}
			return out, nil
		},
	}
}

// ------------------------
// Fake Score Reader
// ------------------------

type FakeScoreReader struct {
	mu     sync.Mutex
	Scores map[uuid.UUID]map[uuid.UUID][]eventdomain.HoleScore
}

func (f *FakeScoreReader) ListHoleScores(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerIDs []uuid.UUID) (map[uuid.UUID][]eventdomain.HoleScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uuid.UUID][]eventdomain.HoleScore{}
	for _, id := range playerIDs {
		if s, ok := f.Scores[eventID][id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

// ------------------------
// Fake Season Store
// ------------------------

type seasonKey struct {
	player uuid.UUID
	year   int
}

type seasonRow struct {
	handicap      decimal.Decimal
	points        int
	participation int
}

type historyRow struct {
	eventID, playerID uuid.UUID
	before, after     decimal.Decimal
	reason            string
}

// FakeSeasonStore applies deltas under a lock, like the SQL increments it stands in for.
type FakeSeasonStore struct {
	mu      sync.Mutex
	rows    map[seasonKey]*seasonRow
	history []historyRow

	ApplyResultsFunc func(ctx context.Context, db bun.IDB, year int, results []eventdomain.Result) error
}

func NewFakeSeasonStore() *FakeSeasonStore {
	return &FakeSeasonStore{rows: map[seasonKey]*seasonRow{}}
}

func (f *FakeSeasonStore) Register(player uuid.UUID, year int, handicap string, points, participation int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[seasonKey{player, year}] = &seasonRow{
		handicap:      decimal.RequireFromString(handicap),
		points:        points,
		participation: participation,
	}
}

func (f *FakeSeasonStore) Row(player uuid.UUID, year int) seasonRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.rows[seasonKey{player, year}]
}

func (f *FakeSeasonStore) History() []historyRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]historyRow(nil), f.history...)
}

func (f *FakeSeasonStore) GetHandicaps(ctx context.Context, db bun.IDB, year int, playerIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uuid.UUID]decimal.Decimal{}
	for _, id := range playerIDs {
		if row, ok := f.rows[seasonKey{id, year}]; ok {
			out[id] = row.handicap
		}
	}
	return out, nil
}

func (f *FakeSeasonStore) ApplyResults(ctx context.Context, db bun.IDB, year int, results []eventdomain.Result) error {
	if f.ApplyResultsFunc != nil {
		return f.ApplyResultsFunc(ctx, db, year, results)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range results {
		row := f.rows[seasonKey{r.PlayerID, year}]
		row.handicap = r.HandicapAfter
		row.points += r.Points
		row.participation++
	}
	return nil
}

func (f *FakeSeasonStore) AppendHandicapHistory(ctx context.Context, db bun.IDB, eventID uuid.UUID, year int, results []eventdomain.Result, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range results {
		f.history = append(f.history, historyRow{
			eventID:  eventID,
			playerID: r.PlayerID,
			before:   r.HandicapBefore,
			after:    r.HandicapAfter,
			reason:   reason,
		})
	}
	return nil
}

// ------------------------
// Counting metrics
// ------------------------

type countingMetrics struct {
	metrics.NoOp
	finalized atomic.Int64
	excluded  atomic.Int64
	conflicts atomic.Int64
}

func (c *countingMetrics) RecordEventFinalized(context.Context, int)         { c.finalized.Add(1) }
func (c *countingMetrics) RecordParticipantExcluded(context.Context, string) { c.excluded.Add(1) }
func (c *countingMetrics) RecordFinalizeConflict(context.Context)            { c.conflicts.Add(1) }
