// Package yelp looks up the Yelp listings of places found by another source.
package yelp

import (
	"context"
	"encoding/json"
	"fastfood-ratings/internal/cache"
	"fastfood-ratings/internal/components/assert"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/internal/place"
	"fmt"
	"net/url"

	"dario.cat/mergo"
)

const (
	report_client_lookup  = "client.lookup"
	report_client_results = "client.results"
)

const DefaultBaseURL = "https://api.yelp.com/v3/businesses/search"

type location struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
}

type business struct {
	Name        string   `json:"name"`
	Rating      float64  `json:"rating"`
	ReviewCount int64    `json:"review_count"`
	Location    location `json:"location"`
}

type searchResponse struct {
	Businesses []business `json:"businesses"`
}

// AuthHeaders returns the headers every request has to carry: the bearer token plus
// any identifying headers. An Authorization header in `identifying` is ignored.
func AuthHeaders(apiKey string, identifying map[string]string) (map[string]string, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + apiKey,
	}
	if len(identifying) == 0 {
		return headers, nil
	}
	err := mergo.Merge(&headers, identifying)
	if err != nil {
		return nil, fmt.Errorf("yelp: merge headers: %w", err)
	}
	return headers, nil
}

type Client struct {
	baseURL string
	cache   *cache.Cache
	// fetch is expected to send AuthHeaders
	fetch cache.FetchFunc
	tel   telemetry.API
}

// NewClient creates a client, `baseURL` defaults to DefaultBaseURL.
func NewClient(baseURL string, c *cache.Cache, fetch cache.FetchFunc, tel telemetry.API) *Client {
	assert.NotNil(tel, "telemetry")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		cache:   c,
		fetch:   fetch,
		tel:     telemetry.NewScopedAPI("yelp", tel),
	}
}

func (c *Client) searchURL(r place.Record) string {
	query := url.Values{}
	query.Set("location", r.Address())
	query.Set("term", r.Name)
	return c.baseURL + "?" + query.Encode()
}

// Lookup searches yelp for every record and returns the businesses found, in order and without
// two records of the same identity. A record whose identity was already found is not searched for.
func (c *Client) Lookup(ctx context.Context, records []place.Record) ([]place.Record, error) {
	var out []place.Record

	for _, input := range records {
		if place.Contains(out, input.Identity()) {
			c.tel.ReportDebug("skipping lookup, already found", input.Name, input.Address())
			continue
		}

		body, err := c.cache.GetOrFetch(ctx, c.searchURL(input), c.fetch)
		if err != nil {
			return nil, fmt.Errorf("yelp: lookup %s: %w", input.Name, err)
		}

		var res searchResponse
		err = json.Unmarshal([]byte(body), &res)
		if err != nil {
			c.tel.ReportBroken(report_client_lookup, err, input.Name, input.Address())
			return nil, fmt.Errorf("yelp: decode: %w", err)
		}

		for _, b := range res.Businesses {
			record := toRecord(b)
			if place.Contains(out, record.Identity()) {
				continue
			}
			out = append(out, record)
		}
	}

	c.tel.ReportCount(report_client_results, int64(len(out)))
	return out, nil
}

func toRecord(b business) place.Record {
	return place.Record{
		Name:        b.Name,
		Street:      b.Location.Address1,
		City:        b.Location.City,
		State:       b.Location.State,
		Zipcode:     b.Location.ZipCode,
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
	}
}
