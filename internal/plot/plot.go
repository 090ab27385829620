// Package plot renders the distributions of the analyzed metrics as png charts.
package plot

import (
	"errors"
	"fastfood-ratings/internal/analyze"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	ErrNoData       = errors.New("plot: no data to plot")
	ErrUnknownChart = errors.New("plot: unknown chart")
)

const (
	ratingBins = 8
	countBins  = 20
)

type chartKind int

const (
	histogram chartKind = iota
	scatter
)

// Chart is one of the numbered charts a user can pick.
type Chart struct {
	Number int
	Title  string
	File   string
	XLabel string
	YLabel string

	kind   chartKind
	bins   int
	// values is used by histograms
	values func(m analyze.Metrics) []float64
	// points is used by scatter plots
	points func(m analyze.Metrics) plotter.XYs
}

func counts(values []int64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func zip(xs, ys []float64) plotter.XYs {
	out := make(plotter.XYs, len(xs))
	for i := range xs {
		out[i].X = xs[i]
		out[i].Y = ys[i]
	}
	return out
}

// Charts lists every chart, Charts[i].Number == i+1.
var Charts = []Chart{
	{
		Number: 1, Title: "Google rating distribution", File: "google_ratings",
		XLabel: "rating", YLabel: "places", kind: histogram, bins: ratingBins,
		values: func(m analyze.Metrics) []float64 { return m.GoogleRatings },
	},
	{
		Number: 2, Title: "Yelp rating distribution", File: "yelp_ratings",
		XLabel: "rating", YLabel: "places", kind: histogram, bins: ratingBins,
		values: func(m analyze.Metrics) []float64 { return m.YelpRatings },
	},
	{
		Number: 3, Title: "Weighted rating distribution", File: "weighted_ratings",
		XLabel: "weighted rating", YLabel: "places", kind: histogram, bins: ratingBins,
		values: func(m analyze.Metrics) []float64 { return m.RatedWeightedRatings() },
	},
	{
		Number: 4, Title: "Google review count distribution", File: "google_review_counts",
		XLabel: "reviews", YLabel: "places", kind: histogram, bins: countBins,
		values: func(m analyze.Metrics) []float64 { return counts(m.GoogleCounts) },
	},
	{
		Number: 5, Title: "Yelp review count distribution", File: "yelp_review_counts",
		XLabel: "reviews", YLabel: "places", kind: histogram, bins: countBins,
		values: func(m analyze.Metrics) []float64 { return counts(m.YelpCounts) },
	},
	{
		Number: 6, Title: "Total review count distribution", File: "total_review_counts",
		XLabel: "reviews", YLabel: "places", kind: histogram, bins: countBins,
		values: func(m analyze.Metrics) []float64 { return counts(m.TotalCounts) },
	},
	{
		Number: 7, Title: "Google rating vs Yelp rating", File: "rating_scatter",
		XLabel: "google rating", YLabel: "yelp rating", kind: scatter,
		points: func(m analyze.Metrics) plotter.XYs { return zip(m.GoogleRatings, m.YelpRatings) },
	},
	{
		Number: 8, Title: "Google review count vs Yelp review count", File: "review_count_scatter",
		XLabel: "google reviews", YLabel: "yelp reviews", kind: scatter,
		points: func(m analyze.Metrics) plotter.XYs {
			return zip(counts(m.GoogleCounts), counts(m.YelpCounts))
		},
	},
}

// Lookup returns the chart numbered `number`.
func Lookup(number int) (Chart, error) {
	if number < 1 || number > len(Charts) {
		return Chart{}, fmt.Errorf("%w: %d", ErrUnknownChart, number)
	}
	return Charts[number-1], nil
}

func (c Chart) build(m analyze.Metrics) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	switch c.kind {
	case histogram:
		values := c.values(m)
		if len(values) == 0 {
			return nil, ErrNoData
		}
		h, err := plotter.NewHist(plotter.Values(values), c.bins)
		if err != nil {
			return nil, err
		}
		p.Add(h)
	case scatter:
		points := c.points(m)
		if len(points) == 0 {
			return nil, ErrNoData
		}
		s, err := plotter.NewScatter(points)
		if err != nil {
			return nil, err
		}
		p.Add(s, plotter.NewGrid())
	}
	return p, nil
}

// Render draws chart `number` for `m` into a png in `dir` and returns its path.
func Render(number int, m analyze.Metrics, dir string) (string, error) {
	chart, err := Lookup(number)
	if err != nil {
		return "", err
	}
	p, err := chart.build(m)
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return "", fmt.Errorf("plot: create output dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%d_%s.png", chart.Number, chart.File))
	err = p.Save(8*vg.Inch, 5*vg.Inch, path)
	if err != nil {
		return "", fmt.Errorf("plot: save %s: %w", path, err)
	}
	return path, nil
}
