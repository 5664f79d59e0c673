package scoremigrations

import (
	"context"
	"fmt"

	scoredb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating scores table...")

		if _, err := db.NewCreateTable().Model((*scoredb.Score)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewRaw(`
			ALTER TABLE scores
				DROP CONSTRAINT IF EXISTS scores_hole_number_check,
				ADD CONSTRAINT scores_hole_number_check CHECK (hole_number BETWEEN 1 AND 18),
				DROP CONSTRAINT IF EXISTS scores_strokes_check,
				ADD CONSTRAINT scores_strokes_check CHECK (strokes >= 0 AND putts >= 0)
		`).Exec(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Scores table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scores table...")

		if _, err := db.NewRaw("DROP TABLE IF EXISTS scores").Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Scores table dropped successfully!")
		return nil
	})
}
