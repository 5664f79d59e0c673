package eventdomain

import "fmt"

var validPars = map[int]struct{}{3: {}, 4: {}, 5: {}}

// CoursePar validates an 18-hole layout and returns the sum of its pars.
func CoursePar(holes []CourseHole) (int, error) {
	if len(holes) != HolesPerRound {
		return 0, fmt.Errorf("%w: expected %d holes, got %d", ErrInvalidCourse, HolesPerRound, len(holes))
	}

	seen := make(map[int]struct{}, HolesPerRound)
	par := 0
	for _, h := range holes {
		if h.HoleNumber < 1 || h.HoleNumber > HolesPerRound {
			return 0, fmt.Errorf("%w: hole number %d out of range", ErrInvalidCourse, h.HoleNumber)
		}
		if _, dup := seen[h.HoleNumber]; dup {
			return 0, fmt.Errorf("%w: hole %d listed twice", ErrInvalidCourse, h.HoleNumber)
		}
		if _, ok := validPars[h.Par]; !ok {
			return 0, fmt.Errorf("%w: hole %d has par %d", ErrInvalidCourse, h.HoleNumber, h.Par)
		}
		seen[h.HoleNumber] = struct{}{}
		par += h.Par
	}
	return par, nil
}
