package eventdomain

// Tier is the competitive weight of an event.
type Tier string

const (
	TierRegular Tier = "regular"
	TierMajor   Tier = "major"
	TierFinal   Tier = "final"
)

// pointsTable holds the awards for ranks 1..5 per tier. Ranks past the end score 0.
var pointsTable = map[Tier][]int{
	TierRegular: {16, 8, 4, 2, 1},
	TierMajor:   {21, 12, 7, 4, 2},
	TierFinal:   {26, 16, 10, 6, 3},
}

// Valid reports whether t has its own points table.
func (t Tier) Valid() bool {
	_, ok := pointsTable[t]
	return ok
}

// PointsFor returns the points for a rank. Unknown tiers use the regular table.
func PointsFor(tier Tier, rank int) int {
	table, ok := pointsTable[tier]
	if !ok {
		table = pointsTable[TierRegular]
	}
	if rank < 1 || rank > len(table) {
		return 0
	}
	return table[rank-1]
}
