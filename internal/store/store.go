// Package store persists the records of both sources and joins them back.
package store

import (
	"context"
	"database/sql"
	"fastfood-ratings/internal/components/assert"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/internal/db"
	"fastfood-ratings/internal/match"
	"fastfood-ratings/internal/place"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/store")

const (
	report_store_replace = "store.replace"
	report_store_matched = "store.matched-pairs"
)

type Store struct {
	db     *sql.DB
	qry    *db.Queries
	makeTx db.MakeTx
	tel    telemetry.API
}

func New(database *sql.DB, tel telemetry.API) *Store {
	assert.NotNil(tel, "telemetry")
	return &Store{
		db:     database,
		qry:    db.New(database),
		makeTx: db.NewMakeTx(database),
		tel:    telemetry.NewScopedAPI("store", tel),
	}
}

// Open opens the database described by `config`.
func Open(config Config, tel telemetry.API) (*Store, error) {
	database, err := config.OpenDB()
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	return New(database, tel), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func toParams(r place.Record) db.InsertPlaceParams {
	return db.InsertPlaceParams{
		Name:        r.Name,
		Street:      r.Street,
		City:        r.City,
		State:       r.State,
		Zipcode:     r.Zipcode,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
	}
}

// Replace drops both tables, recreates them and inserts the given records.
func (s *Store) Replace(ctx context.Context, google, yelp []place.Record) error {
	ctx, span := tracer.Start(ctx, "Replace")
	defer span.End()
	span.SetAttributes(
		attribute.Int("google", len(google)),
		attribute.Int("yelp", len(yelp)),
	)

	fail := func(step string, err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.tel.ReportBroken(report_store_replace, fmt.Errorf("%s: %w", step, err))
		return fmt.Errorf("store: %s: %w", step, err)
	}

	txqry, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return fail("begin", err)
	}
	defer discard()

	err = txqry.ResetTables(ctx)
	if err != nil {
		return fail("reset tables", err)
	}
	for _, r := range google {
		err = txqry.InsertGoogle(ctx, toParams(r))
		if err != nil {
			return fail("insert google", err)
		}
	}
	for _, r := range yelp {
		err = txqry.InsertYelp(ctx, toParams(r))
		if err != nil {
			return fail("insert yelp", err)
		}
	}

	err = commit()
	if err != nil {
		return fail("commit", err)
	}
	return nil
}

// MatchedPairs joins the stored google and yelp records, see match.Join for the semantics.
func (s *Store) MatchedPairs(ctx context.Context) ([]match.Pair, error) {
	ctx, span := tracer.Start(ctx, "MatchedPairs")
	defer span.End()

	rows, err := s.qry.GetMatchedPairs(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.tel.ReportBroken(report_store_matched, err)
		return nil, fmt.Errorf("store: matched pairs: %w", err)
	}

	pairs := make([]match.Pair, len(rows))
	for i, r := range rows {
		pairs[i] = match.Pair{
			Name:              r.Name,
			Street:            r.Street,
			City:              r.City,
			State:             r.State,
			Zipcode:           r.Zipcode,
			GoogleRating:      r.GoogleRating,
			GoogleReviewCount: r.GoogleReviewCount,
			YelpRating:        r.YelpRating,
			YelpReviewCount:   r.YelpReviewCount,
		}
	}
	return pairs, nil
}

// Counts returns the number of stored google and yelp records.
func (s *Store) Counts(ctx context.Context) (google, yelp int64, err error) {
	google, err = s.qry.CountGoogle(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("store: count google: %w", err)
	}
	yelp, err = s.qry.CountYelp(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("store: count yelp: %w", err)
	}
	return google, yelp, nil
}
