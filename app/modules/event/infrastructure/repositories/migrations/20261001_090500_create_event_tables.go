package eventmigrations

import (
	"context"
	"fmt"

	eventdb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating courses, events, participants and results tables...")

		if _, err := db.NewCreateTable().Model((*eventdb.Course)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().
			Model((*eventdb.CourseHole)(nil)).
			IfNotExists().
			ForeignKey(`(course_id) REFERENCES courses (id) ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().
			Model((*eventdb.Event)(nil)).
			IfNotExists().
			ForeignKey(`(course_id) REFERENCES courses (id)`).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().
			Model((*eventdb.EventParticipant)(nil)).
			IfNotExists().
			ForeignKey(`(event_id) REFERENCES events (id) ON DELETE CASCADE`).
			ForeignKey(`(player_id) REFERENCES players (id) ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().
			Model((*eventdb.EventResult)(nil)).
			IfNotExists().
			ForeignKey(`(event_id) REFERENCES events (id) ON DELETE CASCADE`).
			ForeignKey(`(player_id) REFERENCES players (id)`).
			Exec(ctx); err != nil {
			return err
		}

		for _, stmt := range []string{
			"ALTER TABLE course_holes ADD CONSTRAINT course_holes_hole_number_check CHECK (hole_number BETWEEN 1 AND 18)",
			"ALTER TABLE course_holes ADD CONSTRAINT course_holes_par_check CHECK (par IN (3, 4, 5))",
			"ALTER TABLE events ADD CONSTRAINT events_event_type_check CHECK (event_type IN ('regular', 'major', 'final'))",
			"CREATE INDEX IF NOT EXISTS idx_events_year_date ON events (year, event_date DESC)",
			"CREATE INDEX IF NOT EXISTS idx_events_due ON events (score_edit_deadline) WHERE NOT is_finalized",
			"CREATE INDEX IF NOT EXISTS idx_event_results_event_rank ON event_results (event_id, rank)",
		} {
			if _, err := db.NewRaw(stmt).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Event tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping event tables...")

		for _, table := range []string{"event_results", "event_participants", "events", "course_holes", "courses"} {
			if _, err := db.NewRaw("DROP TABLE IF EXISTS " + table + " CASCADE").Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Event tables dropped successfully!")
		return nil
	})
}
