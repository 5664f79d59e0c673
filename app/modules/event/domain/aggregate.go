package eventdomain

import "fmt"

// GrossScore sums strokes across the given holes. Missing holes contribute nothing.
func GrossScore(scores []HoleScore) int {
	total := 0
	for _, s := range scores {
		total += s.Strokes
	}
	return total
}

// ValidateScores rejects hole numbers outside 1..18, negative strokes, and
// duplicate holes.
func ValidateScores(scores []HoleScore) error {
	seen := make(map[int]struct{}, len(scores))
	for _, s := range scores {
		if s.HoleNumber < 1 || s.HoleNumber > HolesPerRound {
			return fmt.Errorf("%w: hole %d out of range", ErrInvalidScore, s.HoleNumber)
		}
		if s.Strokes < 0 {
			return fmt.Errorf("%w: hole %d has negative strokes %d", ErrInvalidScore, s.HoleNumber, s.Strokes)
		}
		if _, dup := seen[s.HoleNumber]; dup {
			return fmt.Errorf("%w: hole %d entered twice", ErrInvalidScore, s.HoleNumber)
		}
		seen[s.HoleNumber] = struct{}{}
	}
	return nil
}
