package eventdomain

import "github.com/shopspring/decimal"

type revisionRule struct {
	coefficient decimal.Decimal
	bonus       decimal.Decimal
}

// revisionRules applies to the podium only; other ranks keep their handicap.
var revisionRules = map[int]revisionRule{
	1: {coefficient: decimal.RequireFromString("0.7"), bonus: decimal.NewFromInt(3)},
	2: {coefficient: decimal.RequireFromString("0.8"), bonus: decimal.NewFromInt(2)},
	3: {coefficient: decimal.RequireFromString("0.9"), bonus: decimal.NewFromInt(1)},
}

// Revision is the outcome of ReviseHandicap.
type Revision struct {
	HandicapAfter   decimal.Decimal
	UnderParStrokes decimal.Decimal
}

// ReviseHandicap computes the post-event handicap for a finisher.
//
// For ranks 1..3 the handicap is first lowered by the strokes the net score
// beat course par by, then scaled by the rank coefficient and floored to one
// decimal place. When scaling would raise the handicap (a negative adjusted
// value moves toward zero) the rank bonus is added to the adjusted value
// instead. Other ranks are returned unchanged with zero under-par strokes.
func ReviseHandicap(before decimal.Decimal, rank int, net decimal.Decimal, coursePar int) Revision {
	rule, ok := revisionRules[rank]
	if !ok {
		return Revision{HandicapAfter: before, UnderParStrokes: decimal.Zero}
	}

	par := decimal.NewFromInt(int64(coursePar))
	underPar := decimal.Zero
	adjusted := before
	if net.LessThan(par) {
		underPar = par.Sub(net)
		adjusted = before.Sub(underPar)
	}

	after := floorTenth(adjusted.Mul(rule.coefficient))
	if after.GreaterThan(adjusted) {
		after = adjusted.Add(rule.bonus)
	}

	return Revision{HandicapAfter: after, UnderParStrokes: underPar}
}

// floorTenth is floor(x*10)/10, rounding toward negative infinity.
func floorTenth(x decimal.Decimal) decimal.Decimal {
	return x.Shift(1).Floor().Shift(-1)
}
