package domain

import "math"

// Rating bounds for reviews. The histogram always carries one bucket per
// value in [MinRating, MaxRating], even when a bucket is empty.
const (
	MinRating = 1
	MaxRating = 5
)

// Stats holds the derived review statistics for one product.
type Stats struct {
	AverageRating float64
	ReviewCount   int
}

// Round1 rounds to one decimal place, halves away from zero. 4.25 becomes
// 4.3 and 4.24 becomes 4.2.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ComputeStats derives the average rating and review count from the full set
// of ratings. Zero ratings yields the zero Stats, so deriving from an empty
// set is always well defined.
func ComputeStats(ratings []int) Stats {
	if len(ratings) == 0 {
		return Stats{}
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	return Stats{
		AverageRating: Round1(float64(sum) / float64(len(ratings))),
		ReviewCount:   len(ratings),
	}
}

// EmptyBreakdown returns a histogram with every rating bucket present and
// zeroed.
func EmptyBreakdown() map[int]int {
	breakdown := make(map[int]int, MaxRating-MinRating+1)
	for r := MinRating; r <= MaxRating; r++ {
		breakdown[r] = 0
	}
	return breakdown
}
