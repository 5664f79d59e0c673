//go:build integration

package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	natsmodule "github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/Monthly-Cup-Club/cup-scorer/integration_tests/containers"
)

// TestEnvironment holds the containers and connections shared by a test package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer *natsmodule.NATSContainer
	DB            *bun.DB
	DSN           string
	NatsConn      *nats.Conn
}

var (
	globalEnv     *TestEnvironment
	globalEnvErr  error
	globalEnvOnce sync.Once
)

// GetOrCreateTestEnv returns the package-wide environment, starting the
// containers on first use, and resets the database for the calling test.
func GetOrCreateTestEnv(t *testing.T) *TestEnvironment {
	t.Helper()

	globalEnvOnce.Do(func() {
		globalEnv, globalEnvErr = newTestEnvironment()
	})
	if globalEnvErr != nil {
		t.Fatalf("failed to create test environment: %v", globalEnvErr)
	}

	if err := CleanupDatabase(globalEnv.Ctx, globalEnv.DB); err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
	return globalEnv
}

func newTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{Ctx: ctx, CancelContext: cancel}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	env.PgContainer = pgContainer
	env.DSN = dsn

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Teardown()
		return nil, err
	}
	env.NatsContainer = natsContainer

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		env.Teardown()
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bun.NewDB(sqlDB, pgdialect.New())

	if err := RunMigrations(ctx, env.DB, dsn); err != nil {
		env.Teardown()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	nc, err := nats.Connect(natsURL, nats.Timeout(10*time.Second))
	if err != nil {
		env.Teardown()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	env.NatsConn = nc

	return env, nil
}

// Teardown closes connections and terminates the containers.
func (env *TestEnvironment) Teardown() {
	ctx := context.Background()
	if env.NatsConn != nil {
		env.NatsConn.Close()
	}
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate Postgres container: %v", err)
		}
	}
	env.CancelContext()
}

// TeardownGlobalEnv is called from TestMain after the package's tests ran.
func TeardownGlobalEnv() {
	if globalEnv != nil {
		globalEnv.Teardown()
	}
}
