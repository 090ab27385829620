package commands

import (
	"fastfood-ratings/internal/analyze"
	"fastfood-ratings/internal/collector"
	"fastfood-ratings/internal/plot"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func renderBrands(out io.Writer, list []string) {
	t := newTable(out)
	t.AppendHeader(table.Row{"#", "brand"})
	for i, name := range list {
		t.AppendRow(table.Row{i + 1, name})
	}
	t.Render()
}

func renderResult(out io.Writer, result collector.Result) {
	fmt.Fprintf(
		out,
		"%s around %s: %d google places, %d yelp businesses, %d matched\n",
		result.Brand, result.Location, len(result.Google), len(result.Yelp), len(result.Pairs),
	)

	pairs := newTable(out)
	pairs.AppendHeader(table.Row{"name", "address", "google", "reviews", "yelp", "reviews", "weighted"})
	for i, p := range result.Pairs {
		weighted := "-"
		if result.Metrics.Rated[i] {
			weighted = fmt.Sprintf("%.2f", result.Metrics.WeightedRatings[i])
		}
		pairs.AppendRow(table.Row{
			p.Name,
			fmt.Sprintf("%s, %s, %s %s", p.Street, p.City, p.State, p.Zipcode),
			p.GoogleRating, p.GoogleReviewCount,
			p.YelpRating, p.YelpReviewCount,
			weighted,
		})
	}
	pairs.Render()

	if len(result.Suggestions) > 0 {
		fmt.Fprintln(out, "possible matches that were not joined:")
		suggestions := newTable(out)
		suggestions.AppendHeader(table.Row{"google", "yelp", "similarity"})
		for _, s := range result.Suggestions {
			suggestions.AppendRow(table.Row{
				s.Google.Name + ", " + s.Google.Address(),
				s.Yelp.Name + ", " + s.Yelp.Address(),
				fmt.Sprintf("%.3f", s.Similarity),
			})
		}
		suggestions.Render()
	}

	summary := newTable(out)
	summary.AppendHeader(table.Row{"series", "count", "mean", "min", "max"})
	for _, s := range analyze.Summarize(result.Metrics) {
		summary.AppendRow(table.Row{s.Name, s.Count, s.Mean, s.Min, s.Max})
	}
	summary.Render()
}

func renderCharts(out io.Writer) {
	t := newTable(out)
	t.AppendHeader(table.Row{"#", "chart"})
	for _, chart := range plot.Charts {
		t.AppendRow(table.Row{chart.Number, chart.Title})
	}
	t.Render()
}
