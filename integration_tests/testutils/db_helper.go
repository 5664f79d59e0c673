//go:build integration

package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	eventmigrations "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories/migrations"
	leaderboardmigrations "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/repositories/migrations"
	scoremigrations "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories/migrations"
)

// appTables lists every application table; TRUNCATE ... CASCADE handles the
// foreign keys between them.
var appTables = []string{
	"handicap_history",
	"event_results",
	"scores",
	"event_participants",
	"events",
	"course_holes",
	"courses",
	"player_season_stats",
	"players",
}

// RunMigrations applies River's schema and then every module's migrations
// in foreign key order.
func RunMigrations(ctx context.Context, db *bun.DB, pgConnStr string) error {
	if err := migrate.NewMigrator(db, leaderboardmigrations.Migrations).Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	if err := runRiverMigrations(ctx, pgConnStr); err != nil {
		return err
	}

	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"leaderboard", leaderboardmigrations.Migrations},
		{"event", eventmigrations.Migrations},
		{"score", scoremigrations.Migrations},
	}

	for _, mod := range orderedModules {
		group, err := migrate.NewMigrator(db, mod.migrations).Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", mod.name, err)
		}
		log.Printf("Ran %s migrations group #%d", mod.name, group.ID)
	}
	return nil
}

func runRiverMigrations(ctx context.Context, pgConnStr string) error {
	pool, err := pgxpool.New(ctx, pgConnStr)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}

	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

// CleanupDatabase truncates all application tables and River jobs.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		return fmt.Errorf("failed to cleanup river jobs: %w", err)
	}
	return nil
}
