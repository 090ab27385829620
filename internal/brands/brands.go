// Package brands scrapes the list of fast food brands a user can search for.
package brands

import (
	"context"
	"errors"
	"fastfood-ratings/internal/cache"
	"fastfood-ratings/lib/htmlutil"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultPageURL is the ranking the brand names are scraped from.
const DefaultPageURL = "https://www.qsrmagazine.com/reports/2020-qsr-50"

const brandSelector = "p.chainame"

var ErrNoBrands = errors.New("brands: no brand names found on page")

// List fetches `pageURL` through the cache and returns every brand name on it, lowercased.
func List(ctx context.Context, c *cache.Cache, fetch cache.FetchFunc, pageURL string) ([]string, error) {
	body, err := c.GetOrFetch(ctx, pageURL, fetch)
	if err != nil {
		return nil, err
	}
	names, err := Parse(body)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoBrands
	}
	return names, nil
}

// Parse extracts the brand names from the ranking page html.
func Parse(page string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("brands: parse: %w", err)
	}

	var names []string
	for _, text := range htmlutil.Texts(doc.Find(brandSelector)) {
		names = append(names, strings.ToLower(text))
	}
	return names, nil
}

// Normalize puts user input in the same form as the names returned by List.
func Normalize(name string) string {
	return strings.ToLower(htmlutil.NormalizeText(name))
}

// Valid reports whether `name` is one of `brands`.
func Valid(brands []string, name string) bool {
	name = Normalize(name)
	for _, b := range brands {
		if b == name {
			return true
		}
	}
	return false
}
