// Package google searches restaurants through the Google Places text search api.
package google

import (
	"context"
	"encoding/json"
	"fastfood-ratings/internal/cache"
	"fastfood-ratings/internal/components/assert"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/internal/place"
	"fmt"
	"net/url"
)

const (
	report_client_search       = "client.search"
	report_client_parse_result = "client.parse-result"
	report_client_results      = "client.results"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	DefaultRegion  = "us"
	DefaultType    = "restaurant"

	// MaxResults is the most records a single search will return.
	MaxResults = 100
)

const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

type searchResult struct {
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Rating           float64 `json:"rating"`
	UserRatingsTotal int64   `json:"user_ratings_total"`
}

type searchResponse struct {
	Status        string         `json:"status"`
	ErrorMessage  string         `json:"error_message"`
	Results       []searchResult `json:"results"`
	NextPageToken string         `json:"next_page_token"`
}

type Options struct {
	// defaults to DefaultBaseURL
	BaseURL string
	APIKey  string
	// defaults to DefaultRegion
	Region string
	// defaults to DefaultType
	Type string
}

type Client struct {
	opts  Options
	cache *cache.Cache
	fetch cache.FetchFunc
	tel   telemetry.API
}

func NewClient(opts Options, c *cache.Cache, fetch cache.FetchFunc, tel telemetry.API) *Client {
	assert.NotNil(tel, "telemetry")

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}
	if opts.Type == "" {
		opts.Type = DefaultType
	}

	return &Client{
		opts:  opts,
		cache: c,
		fetch: fetch,
		tel:   telemetry.NewScopedAPI("google_places", tel),
	}
}

// searchURL builds the request url, spaces in the query are encoded as '+'.
func (c *Client) searchURL(brand, location, pageToken string) string {
	query := url.Values{}
	query.Set("query", brand+" "+location)
	query.Set("region", c.opts.Region)
	query.Set("type", c.opts.Type)
	query.Set("key", c.opts.APIKey)
	if pageToken != "" {
		query.Set("pagetoken", pageToken)
	}
	return c.opts.BaseURL + "?" + query.Encode()
}

// Search returns the places matching `brand` around `location` in the order the api returns
// them. Results whose address cannot be split into street, city, state and zipcode are
// dropped. At most MaxResults records are returned.
func (c *Client) Search(ctx context.Context, brand, location string) ([]place.Record, error) {
	var records []place.Record
	pageToken := ""

	for {
		body, err := c.cache.GetOrFetch(ctx, c.searchURL(brand, location, pageToken), c.fetch)
		if err != nil {
			return nil, fmt.Errorf("google places: search: %w", err)
		}

		var res searchResponse
		err = json.Unmarshal([]byte(body), &res)
		if err != nil {
			return nil, fmt.Errorf("google places: decode: %w", err)
		}

		switch res.Status {
		case StatusOK:
		case StatusZeroResults:
			c.tel.ReportCount(report_client_results, int64(len(records)))
			return records, nil
		default:
			c.tel.ReportWarning(
				report_client_search,
				fmt.Errorf("unexpected status %q: %s", res.Status, res.ErrorMessage),
				brand, location,
			)
			c.tel.ReportCount(report_client_results, int64(len(records)))
			return records, nil
		}

		for _, result := range res.Results {
			if len(records) >= MaxResults {
				break
			}
			record, ok := toRecord(result)
			if !ok {
				c.tel.ReportDebug(report_client_parse_result, "dropping malformed address", result.FormattedAddress)
				continue
			}
			records = append(records, record)
		}

		if len(records) >= MaxResults || res.NextPageToken == "" {
			break
		}
		if res.NextPageToken == pageToken {
			c.tel.ReportWarning(report_client_search, "next page token did not change", pageToken)
			break
		}
		pageToken = res.NextPageToken
	}

	c.tel.ReportCount(report_client_results, int64(len(records)))
	return records, nil
}

func toRecord(result searchResult) (place.Record, bool) {
	street, city, state, zipcode, ok := place.ParseAddress(result.FormattedAddress)
	if !ok {
		return place.Record{}, false
	}
	return place.Record{
		Name:        result.Name,
		Street:      street,
		City:        city,
		State:       state,
		Zipcode:     zipcode,
		Rating:      result.Rating,
		ReviewCount: result.UserRatingsTotal,
	}, true
}
