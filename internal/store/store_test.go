package store

import (
	"context"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/internal/match"
	"fastfood-ratings/internal/place"
	"fastfood-ratings/lib/testutil"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	return New(testutil.SetupDB(t, ""), &telemetry.Recorder{})
}

var (
	googleRecords = []place.Record{
		{Name: "M", Street: "1 A St", City: "LA", State: "CA", Zipcode: "90001", Rating: 4.0, ReviewCount: 10},
		{Name: "N", Street: "2 B St", City: "LA", State: "CA", Zipcode: "90002", Rating: 3.0, ReviewCount: 5},
		{Name: "O", Street: "3 C St", City: "LA", State: "CA", Zipcode: "90003", Rating: 2.0, ReviewCount: 1},
	}
	yelpRecords = []place.Record{
		{Name: "M", Street: "1 A St", City: "LA", State: "CA", Zipcode: "90001", Rating: 4.5, ReviewCount: 20},
		// joins even though the city differs
		{Name: "N", Street: "2 B St", City: "Los Angeles", State: "CA", Zipcode: "90002", Rating: 3.5, ReviewCount: 2},
		{Name: "O", Street: "3 C St", City: "LA", State: "CA", Zipcode: "99999", Rating: 5.0, ReviewCount: 9},
	}
)

func TestReplaceAndMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Replace(ctx, googleRecords, yelpRecords)
	require.NoError(t, err)

	google, yelp, err := s.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), google)
	require.Equal(t, int64(3), yelp)

	pairs, err := s.MatchedPairs(ctx)
	require.NoError(t, err)

	expected := []match.Pair{
		{
			Name: "M", Street: "1 A St", City: "LA", State: "CA", Zipcode: "90001",
			GoogleRating: 4.0, GoogleReviewCount: 10, YelpRating: 4.5, YelpReviewCount: 20,
		},
		{
			Name: "N", Street: "2 B St", City: "LA", State: "CA", Zipcode: "90002",
			GoogleRating: 3.0, GoogleReviewCount: 5, YelpRating: 3.5, YelpReviewCount: 2,
		},
	}
	require.Empty(t, cmp.Diff(expected, pairs))

	// the sql join and the in-memory join agree
	require.Empty(t, cmp.Diff(match.Join(googleRecords, yelpRecords), pairs))
}

func TestReplaceDropsPreviousRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, googleRecords, yelpRecords))
	require.NoError(t, s.Replace(ctx, googleRecords[:1], nil))

	google, yelp, err := s.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), google)
	require.Equal(t, int64(0), yelp)

	pairs, err := s.MatchedPairs(ctx)
	require.NoError(t, err)
	require.Empty(t, pairs)
}

func TestMatchedPairsWithoutTables(t *testing.T) {
	tel := &telemetry.Recorder{}
	s := New(testutil.SetupDB(t, ""), tel)

	_, err := s.MatchedPairs(context.Background())
	require.Error(t, err)
	require.Len(t, tel.Reports("broken"), 1)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.db")
	s, err := Open(Config{File: path}, &telemetry.Recorder{})
	require.NoError(t, err)
	require.NoError(t, s.Replace(context.Background(), googleRecords, yelpRecords))
	require.NoError(t, s.Close())

	reopened, err := Open(Config{File: path}, &telemetry.Recorder{})
	require.NoError(t, err)
	defer reopened.Close()
	pairs, err := reopened.MatchedPairs(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 2)
}

func TestOpenInvalidConfig(t *testing.T) {
	_, err := Open(Config{}, &telemetry.Recorder{})
	require.Error(t, err)

	_, err = Open(Config{URL: "ftp://example.com"}, &telemetry.Recorder{})
	require.Error(t, err)
}
