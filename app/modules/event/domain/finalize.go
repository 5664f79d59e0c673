package eventdomain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ComputeResults runs the whole field through aggregation, ranking, points
// and handicap revision. It has no side effects; callers persist the output.
// Results are returned in rank order.
func ComputeResults(tier Tier, coursePar int, entrants []Entrant) ([]Result, error) {
	standings := make([]Standing, 0, len(entrants))
	gross := make(map[uuid.UUID]int, len(entrants))

	for _, e := range entrants {
		if err := ValidateScores(e.Scores); err != nil {
			return nil, fmt.Errorf("player %s: %w", e.PlayerID, err)
		}
		g := GrossScore(e.Scores)
		gross[e.PlayerID] = g
		standings = append(standings, Standing{
			PlayerID:       e.PlayerID,
			NetScore:       decimal.NewFromInt(int64(g)).Sub(e.HandicapBefore),
			HandicapBefore: e.HandicapBefore,
		})
	}

	ranked, ranks := RankField(standings)
	results := make([]Result, len(ranked))
	for i, st := range ranked {
		rev := ReviseHandicap(st.HandicapBefore, ranks[i], st.NetScore, coursePar)
		results[i] = Result{
			PlayerID:        st.PlayerID,
			GrossScore:      gross[st.PlayerID],
			NetScore:        st.NetScore,
			Rank:            ranks[i],
			Points:          PointsFor(tier, ranks[i]),
			HandicapBefore:  st.HandicapBefore,
			HandicapAfter:   rev.HandicapAfter,
			UnderParStrokes: rev.UnderParStrokes,
		}
	}
	return results, nil
}
