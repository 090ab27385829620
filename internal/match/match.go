// Package match joins the records of the two rating sources.
package match

import (
	"fastfood-ratings/internal/place"
	"strings"

	"github.com/antzucaro/matchr"
)

// Pair is a place found by both sources. The descriptive fields come from the google side.
type Pair struct {
	Name    string
	Street  string
	City    string
	State   string
	Zipcode string

	GoogleRating      float64
	GoogleReviewCount int64
	YelpRating        float64
	YelpReviewCount   int64
}

// Join pairs every google record with every yelp record sharing its place.JoinKey,
// in google order then yelp order.
//
// note: the key leaves out city and state, two records with different cities still join.
// The sql join in internal/db has the same semantics.
func Join(google, yelp []place.Record) []Pair {
	var pairs []Pair
	for _, g := range google {
		for _, y := range yelp {
			if g.JoinKey() != y.JoinKey() {
				continue
			}
			pairs = append(pairs, Pair{
				Name:              g.Name,
				Street:            g.Street,
				City:              g.City,
				State:             g.State,
				Zipcode:           g.Zipcode,
				GoogleRating:      g.Rating,
				GoogleReviewCount: g.ReviewCount,
				YelpRating:        y.Rating,
				YelpReviewCount:   y.ReviewCount,
			})
		}
	}
	return pairs
}

// Suggestion is a google record with no exact join partner and the yelp record that looks most like it.
type Suggestion struct {
	Google     place.Record
	Yelp       place.Record
	Similarity float64
}

func fingerprint(r place.Record) string {
	return strings.ToLower(r.Name + " " + r.Street + " " + r.Zipcode)
}

// Suggest finds near misses: for each google record that Join would not pair, the most
// similar unpaired yelp record by Jaro-Winkler similarity, if it is at least `threshold`.
// Each yelp record is suggested at most once. Suggestions are only informative, they are
// never turned into pairs.
func Suggest(google, yelp []place.Record, threshold float64) []Suggestion {
	joined := map[place.JoinKey]struct{}{}
	for _, g := range google {
		for _, y := range yelp {
			if g.JoinKey() == y.JoinKey() {
				joined[g.JoinKey()] = struct{}{}
			}
		}
	}

	var suggestions []Suggestion
	taken := make(map[place.Identity]struct{})

	for _, g := range google {
		if _, ok := joined[g.JoinKey()]; ok {
			continue
		}

		var best place.Record
		var bestSimilarity float64
		for _, y := range yelp {
			if _, ok := joined[y.JoinKey()]; ok {
				continue
			}
			if _, ok := taken[y.Identity()]; ok {
				continue
			}
			similarity := matchr.JaroWinkler(fingerprint(g), fingerprint(y), false)
			if similarity > bestSimilarity {
				bestSimilarity = similarity
				best = y
			}
		}

		if bestSimilarity > 0 && bestSimilarity >= threshold {
			suggestions = append(suggestions, Suggestion{
				Google:     g,
				Yelp:       best,
				Similarity: bestSimilarity,
			})
			taken[best.Identity()] = struct{}{}
		}
	}

	return suggestions
}
