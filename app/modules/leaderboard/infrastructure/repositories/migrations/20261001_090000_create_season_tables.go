package leaderboardmigrations

import (
	"context"
	"fmt"

	leaderboarddb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating players, player_season_stats and handicap_history tables...")

		if _, err := db.NewCreateTable().Model((*leaderboarddb.Player)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().
			Model((*leaderboarddb.SeasonStats)(nil)).
			IfNotExists().
			ForeignKey(`(player_id) REFERENCES players (id) ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*leaderboarddb.HandicapHistory)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_season_stats_year_points ON player_season_stats (year, total_points DESC)").Exec(ctx)
		if err != nil {
			return err
		}
		_, err = db.NewRaw("CREATE INDEX IF NOT EXISTS idx_handicap_history_player_year ON handicap_history (player_id, year)").Exec(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Season tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping season tables...")

		for _, table := range []string{"handicap_history", "player_season_stats", "players"} {
			if _, err := db.NewRaw("DROP TABLE IF EXISTS " + table).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Season tables dropped successfully!")
		return nil
	})
}
