// Package collector runs one collection: search, review lookup, persistence, matching and analysis.
package collector

import (
	"context"
	"fastfood-ratings/internal/analyze"
	"fastfood-ratings/internal/components/assert"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/internal/match"
	"fastfood-ratings/internal/place"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("internal/collector")

const (
	report_collector_run  = "collector.run"
	report_collector_join = "collector.join"
)

// PlaceSearcher finds the places of a brand around a location.
type PlaceSearcher interface {
	Search(ctx context.Context, brand, location string) ([]place.Record, error)
}

// ReviewLookup finds the listings of the given places on another source.
type ReviewLookup interface {
	Lookup(ctx context.Context, records []place.Record) ([]place.Record, error)
}

// Store keeps the records of the latest run.
type Store interface {
	Replace(ctx context.Context, google, yelp []place.Record) error
	MatchedPairs(ctx context.Context) ([]match.Pair, error)
}

type Options struct {
	// suggestions below this jaro-winkler similarity are not reported, zero disables suggestions
	SuggestThreshold float64
}

type Collector struct {
	places  PlaceSearcher
	reviews ReviewLookup
	store   Store
	opts    Options
	tel     telemetry.API
}

func New(places PlaceSearcher, reviews ReviewLookup, store Store, opts Options, tel telemetry.API) *Collector {
	assert.NotNil(places, "place searcher")
	assert.NotNil(reviews, "review lookup")
	assert.NotNil(store, "store")
	assert.NotNil(tel, "telemetry")
	return &Collector{
		places:  places,
		reviews: reviews,
		store:   store,
		opts:    opts,
		tel:     telemetry.NewScopedAPI("collector", tel),
	}
}

type Result struct {
	Brand    string
	Location string

	Google []place.Record
	Yelp   []place.Record

	// pairs as joined by the store
	Pairs   []match.Pair
	Metrics analyze.Metrics

	// near misses that were not joined
	Suggestions []match.Suggestion
}

// Run collects `brand` around `location`. The tables written by the previous run are replaced.
func (c *Collector) Run(ctx context.Context, brand, location string) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.String("brand", brand),
		attribute.String("location", location),
	))
	defer span.End()

	fail := func(err error) (Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	result := Result{Brand: brand, Location: location}

	google, err := c.places.Search(ctx, brand, location)
	if err != nil {
		return fail(fmt.Errorf("collector: search: %w", err))
	}
	if len(google) == 0 {
		c.tel.ReportWarning(report_collector_run, "no places found", brand, location)
	}
	result.Google = google

	yelp, err := c.reviews.Lookup(ctx, google)
	if err != nil {
		return fail(fmt.Errorf("collector: lookup: %w", err))
	}
	result.Yelp = yelp

	err = c.store.Replace(ctx, google, yelp)
	if err != nil {
		return fail(fmt.Errorf("collector: %w", err))
	}
	pairs, err := c.store.MatchedPairs(ctx)
	if err != nil {
		return fail(fmt.Errorf("collector: %w", err))
	}
	result.Pairs = pairs

	joined := match.Join(google, yelp)
	if len(joined) != len(pairs) {
		c.tel.ReportWarning(
			report_collector_join,
			fmt.Errorf("store returned %d pairs, expected %d", len(pairs), len(joined)),
		)
	}

	result.Metrics = analyze.Compute(pairs)
	if c.opts.SuggestThreshold > 0 {
		result.Suggestions = match.Suggest(google, yelp, c.opts.SuggestThreshold)
	}

	span.SetAttributes(
		attribute.Int("google", len(google)),
		attribute.Int("yelp", len(yelp)),
		attribute.Int("pairs", len(pairs)),
	)
	c.tel.ReportCount(report_collector_run, int64(len(pairs)))

	return result, nil
}
