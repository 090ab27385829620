// Package analyze derives the metrics plotted for matched places.
package analyze

import (
	"fastfood-ratings/internal/match"
	"math"
)

// WeightedRating is the review count weighted average of two ratings, rounded to 2 decimal places.
// ok is false when both counts are zero, in which case there is no rating to report and 0 is returned.
func WeightedRating(ratingA float64, countA int64, ratingB float64, countB int64) (rating float64, ok bool) {
	total := countA + countB
	if total == 0 {
		return 0, false
	}
	weighted := (ratingA*float64(countA) + ratingB*float64(countB)) / float64(total)
	return round2(weighted), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Metrics holds six parallel series, index i of every series describes the same pair.
type Metrics struct {
	GoogleRatings   []float64
	YelpRatings     []float64
	GoogleCounts    []int64
	YelpCounts      []int64
	WeightedRatings []float64
	TotalCounts     []int64
	// Rated[i] is false if WeightedRatings[i] has no meaning because pair i has no reviews at all.
	Rated []bool
}

func (m Metrics) Len() int {
	return len(m.TotalCounts)
}

// Compute derives the metrics for every pair.
func Compute(pairs []match.Pair) Metrics {
	var m Metrics
	for _, p := range pairs {
		weighted, ok := WeightedRating(p.GoogleRating, p.GoogleReviewCount, p.YelpRating, p.YelpReviewCount)

		m.GoogleRatings = append(m.GoogleRatings, p.GoogleRating)
		m.YelpRatings = append(m.YelpRatings, p.YelpRating)
		m.GoogleCounts = append(m.GoogleCounts, p.GoogleReviewCount)
		m.YelpCounts = append(m.YelpCounts, p.YelpReviewCount)
		m.WeightedRatings = append(m.WeightedRatings, weighted)
		m.TotalCounts = append(m.TotalCounts, p.GoogleReviewCount+p.YelpReviewCount)
		m.Rated = append(m.Rated, ok)
	}
	return m
}

// RatedWeightedRatings returns the weighted ratings of the pairs that have any reviews.
func (m Metrics) RatedWeightedRatings() []float64 {
	var out []float64
	for i, v := range m.WeightedRatings {
		if m.Rated[i] {
			out = append(out, v)
		}
	}
	return out
}

// Stats summarizes one series.
type Stats struct {
	Name  string
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

func statsOf(name string, values []float64) Stats {
	s := Stats{Name: name, Count: len(values)}
	if len(values) == 0 {
		return s
	}
	s.Min = values[0]
	s.Max = values[0]
	var sum float64
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = round2(sum / float64(len(values)))
	return s
}

func floats(values []int64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// Summarize returns the stats of every series, in the same order as the Metrics fields.
func Summarize(m Metrics) []Stats {
	return []Stats{
		statsOf("google rating", m.GoogleRatings),
		statsOf("yelp rating", m.YelpRatings),
		statsOf("google review count", floats(m.GoogleCounts)),
		statsOf("yelp review count", floats(m.YelpCounts)),
		statsOf("weighted rating", m.RatedWeightedRatings()),
		statsOf("total review count", floats(m.TotalCounts)),
	}
}
