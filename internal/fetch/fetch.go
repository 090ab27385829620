// Package fetch performs the single http round trip behind every cache miss.
package fetch

import (
	"context"
	"fastfood-ratings/internal/cache"
	"fastfood-ratings/internal/components/assert"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/lib/restyutil"
	"fmt"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

type Options struct {
	UserAgent string
	// zero means no timeout
	Timeout time.Duration
	// BrowserLike makes requests look like they come from a browser, for pages behind cloudflare.
	BrowserLike bool
	// if not nil, every request/response pair is written to it
	Dump restyutil.InstrumentOutput
}

type Fetcher struct {
	http *resty.Client
	tel  telemetry.API
}

func New(opts Options, tel telemetry.API) *Fetcher {
	assert.NotNil(tel, "telemetry")
	tel = telemetry.NewScopedAPI("fetch", tel)

	client := resty.New()
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.BrowserLike {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	telemetry.InstrumentResty(client, tel, opts.Dump)

	return &Fetcher{http: client, tel: tel}
}

// Get issues one GET request and returns the body as text, whatever the status code is.
func (f *Fetcher) Get(ctx context.Context, url string, headers map[string]string) (string, error) {
	res, err := f.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch: GET %s: %w", url, err)
	}
	return res.String(), nil
}

// Plain returns a cache.FetchFunc that sends no extra headers.
func (f *Fetcher) Plain() cache.FetchFunc {
	return f.WithHeaders(nil)
}

// WithHeaders returns a cache.FetchFunc that sends `headers` with every request.
func (f *Fetcher) WithHeaders(headers map[string]string) cache.FetchFunc {
	return func(ctx context.Context, url string) (string, error) {
		return f.Get(ctx, url, headers)
	}
}
