//go:build integration

package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	eventdb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories"
	leaderboarddb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/repositories"
	scoredb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories"
)

// TestDataGenerator seeds realistic rows for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a generator with a fixed seed.
func NewTestDataGenerator(seed uint64) *TestDataGenerator {
	return &TestDataGenerator{faker: gofakeit.New(seed)}
}

// SeedPlayer inserts a player and registers it for year with handicap.
func (g *TestDataGenerator) SeedPlayer(t *testing.T, db bun.IDB, year int, handicap string) leaderboarddb.Player {
	t.Helper()
	ctx := context.Background()

	player := leaderboarddb.Player{
		ID:     uuid.New(),
		Name:   g.faker.Name(),
		Gender: g.faker.RandomString([]string{"M", "F"}),
	}
	_, err := db.NewInsert().Model(&player).Exec(ctx)
	require.NoError(t, err)

	if handicap != "" {
		h := decimal.RequireFromString(handicap)
		_, err = db.NewInsert().Model(&leaderboarddb.SeasonStats{
			PlayerID:        player.ID,
			Year:            year,
			InitialHandicap: h,
			CurrentHandicap: h,
		}).Exec(ctx)
		require.NoError(t, err)
	}
	return player
}

// SeedCourse inserts an 18-hole course. A nil pars slice means par 4 on
// every hole.
func (g *TestDataGenerator) SeedCourse(t *testing.T, db bun.IDB, pars []int) eventdb.Course {
	t.Helper()
	ctx := context.Background()

	course := eventdb.Course{ID: uuid.New(), Name: g.faker.City() + " Golf Club"}
	_, err := db.NewInsert().Model(&course).Exec(ctx)
	require.NoError(t, err)

	holes := make([]eventdb.CourseHole, 18)
	for i := range holes {
		par := 4
		if pars != nil {
			par = pars[i]
		}
		holes[i] = eventdb.CourseHole{CourseID: course.ID, HoleNumber: i + 1, Par: par}
	}
	_, err = db.NewInsert().Model(&holes).Exec(ctx)
	require.NoError(t, err)
	return course
}

// SeedEvent inserts an open event on course with the given participants.
func (g *TestDataGenerator) SeedEvent(t *testing.T, db bun.IDB, courseID uuid.UUID, eventType string, year int, deadline *time.Time, playerIDs ...uuid.UUID) eventdb.Event {
	t.Helper()
	ctx := context.Background()

	ev := eventdb.Event{
		ID:                uuid.New(),
		Name:              g.faker.MonthString() + " Cup",
		EventDate:         time.Date(year, time.Month(g.faker.Number(1, 12)), g.faker.Number(1, 28), 0, 0, 0, 0, time.UTC),
		CourseID:          courseID,
		EventType:         eventType,
		Year:              year,
		Status:            eventdb.StatusInProgress,
		ScoreEditDeadline: deadline,
	}
	_, err := db.NewInsert().Model(&ev).Exec(ctx)
	require.NoError(t, err)

	if len(playerIDs) > 0 {
		participants := make([]eventdb.EventParticipant, len(playerIDs))
		for i, id := range playerIDs {
			participants[i] = eventdb.EventParticipant{EventID: ev.ID, PlayerID: id}
		}
		_, err = db.NewInsert().Model(&participants).Exec(ctx)
		require.NoError(t, err)
	}
	return ev
}

// SeedScores stores strokes on every hole except those listed in skip.
func (g *TestDataGenerator) SeedScores(t *testing.T, db bun.IDB, eventID, playerID uuid.UUID, strokes int, skip ...int) {
	t.Helper()

	skipped := make(map[int]bool, len(skip))
	for _, h := range skip {
		skipped[h] = true
	}

	var rows []scoredb.Score
	for hole := 1; hole <= 18; hole++ {
		if skipped[hole] {
			continue
		}
		rows = append(rows, scoredb.Score{
			EventID:    eventID,
			PlayerID:   playerID,
			HoleNumber: hole,
			Strokes:    strokes,
			Putts:      g.faker.Number(1, 3),
		})
	}
	require.NoError(t, scoredb.NewRepository().UpsertScores(context.Background(), db, rows))
}
