package yelp

import (
	"context"
	"fastfood-ratings/internal/cache"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/internal/place"
	"fmt"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	// keyed by term
	responses map[string]string
	calls     []url.Values
}

func (f *fakeAPI) fetch(_ context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	f.calls = append(f.calls, parsed.Query())
	res, ok := f.responses[parsed.Query().Get("term")]
	if !ok {
		return `{"businesses": []}`, nil
	}
	return res, nil
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	c := cache.Open(filepath.Join(t.TempDir(), "cache.json"), cache.Options{MinInterval: -1}, &telemetry.Recorder{})
	return NewClient("", c, api.fetch, &telemetry.Recorder{})
}

var mRecord = place.Record{Name: "M", Street: "1 A St", City: "LA", State: "CA", Zipcode: "90001", Rating: 4, ReviewCount: 10}

const mResponse = `{"businesses": [
	{"name": "M", "rating": 4.5, "review_count": 20, "location": {"address1": "1 A St", "city": "LA", "state": "CA", "zip_code": "90001"}},
	{"name": "M", "rating": 4.5, "review_count": 20, "location": {"address1": "1 A St", "city": "LA", "state": "CA", "zip_code": "90001"}},
	{"name": "M", "location": {"address1": "9 Z St", "city": "LA", "state": "CA", "zip_code": "90009"}}
]}`

func TestAuthHeaders(t *testing.T) {
	identifying := map[string]string{"User-Agent": "course project", "Authorization": "overwritten"}
	headers, err := AuthHeaders("secret", identifying)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"User-Agent":    "course project",
		"Authorization": "Bearer secret",
	}, headers)
	require.Equal(t, "overwritten", identifying["Authorization"])

	headers, err = AuthHeaders("secret", nil)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"Authorization": "Bearer secret"}, headers)
}

func TestSearchURL(t *testing.T) {
	client := newTestClient(t, &fakeAPI{})
	parsed, err := url.Parse(client.searchURL(mRecord))
	require.NoError(t, err)
	require.Equal(t, "api.yelp.com", parsed.Host)
	require.Equal(t, "1 A St, LA, CA 90001", parsed.Query().Get("location"))
	require.Equal(t, "M", parsed.Query().Get("term"))
}

func TestLookup(t *testing.T) {
	api := &fakeAPI{responses: map[string]string{"M": mResponse}}

	records, err := newTestClient(t, api).Lookup(context.Background(), []place.Record{mRecord})
	require.NoError(t, err)

	expected := []place.Record{
		{Name: "M", Street: "1 A St", City: "LA", State: "CA", Zipcode: "90001", Rating: 4.5, ReviewCount: 20},
		{Name: "M", Street: "9 Z St", City: "LA", State: "CA", Zipcode: "90009"},
	}
	require.Empty(t, cmp.Diff(expected, records))
}

func TestLookupSkipsKnownIdentity(t *testing.T) {
	api := &fakeAPI{responses: map[string]string{"M": mResponse}}

	other := mRecord
	other.Street = "9 Z St"
	other.Zipcode = "90009"
	other.Rating = 1

	// the second and third inputs were already found by the first lookup
	inputs := []place.Record{mRecord, mRecord, other}
	records, err := newTestClient(t, api).Lookup(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Len(t, api.calls, 1)
}

func TestLookupNoDuplicates(t *testing.T) {
	var inputs []place.Record
	responses := map[string]string{}
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("Store %d", i)
		inputs = append(inputs, place.Record{Name: name, Street: "1 A St", City: "LA", State: "CA", Zipcode: "90001"})
		// every lookup returns the same shared business plus one of its own
		responses[name] = fmt.Sprintf(`{"businesses": [
			{"name": "Shared", "location": {"address1": "5 S St", "city": "LA", "state": "CA", "zip_code": "90005"}},
			{"name": "%s", "location": {"address1": "%d B St", "city": "LA", "state": "CA", "zip_code": "90001"}}
		]}`, name, i)
	}
	api := &fakeAPI{responses: responses}

	records, err := newTestClient(t, api).Lookup(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, records, 6)
	require.Len(t, api.calls, 5)

	seen := map[place.Identity]bool{}
	for _, r := range records {
		require.False(t, seen[r.Identity()], r)
		seen[r.Identity()] = true
	}
}

func TestLookupMalformedJSON(t *testing.T) {
	api := &fakeAPI{responses: map[string]string{"M": `{"businesses": [`}}

	_, err := newTestClient(t, api).Lookup(context.Background(), []place.Record{mRecord})
	require.Error(t, err)
}

func TestLookupEmpty(t *testing.T) {
	api := &fakeAPI{}
	records, err := newTestClient(t, api).Lookup(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, records)
	require.Empty(t, api.calls)
}
