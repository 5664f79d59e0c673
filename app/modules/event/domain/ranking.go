package eventdomain

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Standing is the input to ranking: who, their net, and their handicap going in.
type Standing struct {
	PlayerID       uuid.UUID
	NetScore       decimal.Decimal
	HandicapBefore decimal.Decimal
}

// RankField orders standings by net score ascending, then lower handicap,
// then player id, and returns them with positional ranks 1..N.
func RankField(standings []Standing) ([]Standing, []int) {
	sorted := slices.Clone(standings)
	slices.SortFunc(sorted, func(a, b Standing) int {
		if c := a.NetScore.Cmp(b.NetScore); c != 0 {
			return c
		}
		if c := a.HandicapBefore.Cmp(b.HandicapBefore); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID.String(), b.PlayerID.String())
	})

	ranks := make([]int, len(sorted))
	for i := range ranks {
		ranks[i] = i + 1
	}
	return sorted, ranks
}
