//go:build integration

package eventintegrationtests

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	eventservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/application"
	"github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/adapters"
	eventdb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories"
	leaderboarddb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/repositories"
	scoredb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/metrics"
	"github.com/Monthly-Cup-Club/cup-scorer/integration_tests/testutils"
)

const testYear = 2026

type TestDeps struct {
	Ctx     context.Context
	Env     *testutils.TestEnvironment
	BunDB   *bun.DB
	Service *eventservice.EventService
	Gen     *testutils.TestDataGenerator
}

// newService wires an EventService onto the real repositories. Each call has
// its own in-process lock table, as separate replicas would.
func newService(db *bun.DB) *eventservice.EventService {
	return eventservice.NewEventService(
		eventdb.NewRepository(),
		adapters.NewScoreReader(scoredb.NewRepository()),
		adapters.NewSeasonStore(leaderboarddb.NewRepository()),
		nopLogger(),
		metrics.NoOp{},
		nopTracer(),
		db,
	)
}

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func nopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("test_event_service")
}

func SetupTestEventService(t *testing.T) TestDeps {
	t.Helper()

	env := testutils.GetOrCreateTestEnv(t)
	return TestDeps{
		Ctx:     env.Ctx,
		Env:     env,
		BunDB:   env.DB,
		Service: newService(env.DB),
		Gen:     testutils.NewTestDataGenerator(42),
	}
}

// majorFixture seeds a par-72 major with four ranked players and one
// player without season stats.
type majorFixture struct {
	event                         eventdb.Event
	alice, bob, carol, dave, erin uuid.UUID
}

func seedMajor(t *testing.T, deps TestDeps, deadline *time.Time) majorFixture {
	t.Helper()
	db := deps.BunDB
	gen := deps.Gen

	alice := gen.SeedPlayer(t, db, testYear, "12.37")
	bob := gen.SeedPlayer(t, db, testYear, "20")
	carol := gen.SeedPlayer(t, db, testYear, "8")
	dave := gen.SeedPlayer(t, db, testYear, "5")
	erin := gen.SeedPlayer(t, db, testYear, "")

	course := gen.SeedCourse(t, db, nil)
	ev := gen.SeedEvent(t, db, course.ID, "major", testYear, deadline, alice.ID, bob.ID, carol.ID, dave.ID, erin.ID)

	gen.SeedScores(t, db, ev.ID, alice.ID, 4)
	gen.SeedScores(t, db, ev.ID, bob.ID, 5)
	gen.SeedScores(t, db, ev.ID, carol.ID, 5, 7, 12)
	gen.SeedScores(t, db, ev.ID, dave.ID, 5)
	gen.SeedScores(t, db, ev.ID, erin.ID, 3)

	return majorFixture{event: ev, alice: alice.ID, bob: bob.ID, carol: carol.ID, dave: dave.ID, erin: erin.ID}
}
