package performance

import "math"

const (
	competencyWeight = 0.7
	goalWeight       = 0.3
)

// RecomputeRating returns r with OverallRating and PerformanceLevel derived
// from its goals and competencies. The rating stays nil while no competency
// has been scored.
func RecomputeRating(r Review) Review {
	var sum, n int
	for _, s := range r.Competencies.scores() {
		if s != nil {
			sum += *s
			n++
		}
	}
	if n == 0 {
		r.OverallRating = nil
		r.PerformanceLevel = ""
		return r
	}

	avg := float64(sum) / float64(n)
	overall := round2(competencyWeight*avg + goalWeight*goalRate(r.Goals))
	r.OverallRating = &overall
	r.PerformanceLevel = LevelFor(overall)
	return r
}

// goalRate maps the share of completed or exceeded goals onto the 0-5 scale.
func goalRate(goals []Goal) float64 {
	done := 0
	for _, g := range goals {
		if g.Status == GoalCompleted || g.Status == GoalExceeded {
			done++
		}
	}
	return float64(done) / float64(max(1, len(goals))) * 5
}

func LevelFor(rating float64) string {
	switch {
	case rating >= 4.5:
		return LevelOutstanding
	case rating >= 3.5:
		return LevelExceedsExpectations
	case rating >= 2.5:
		return LevelMeetsExpectations
	case rating >= 1.5:
		return LevelBelowExpectations
	default:
		return LevelUnsatisfactory
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
