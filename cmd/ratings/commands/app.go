package commands

import (
	"context"
	"fastfood-ratings/internal/brands"
	"fastfood-ratings/internal/cache"
	"fastfood-ratings/internal/collector"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/internal/config"
	"fastfood-ratings/internal/fetch"
	"fastfood-ratings/internal/google"
	"fastfood-ratings/internal/store"
	"fastfood-ratings/internal/yelp"
	"fastfood-ratings/lib/restyutil"
	"fmt"
	"io"
	"path/filepath"
)

// app holds everything a command needs, wired from the config.
type app struct {
	cfg   config.Config
	tel   telemetry.API
	out   io.Writer
	cache *cache.Cache
	// pages is used for html pages, api for json apis
	pages *fetch.Fetcher
	api   *fetch.Fetcher
	store *store.Store

	collector *collector.Collector
	brands    []string
}

func dumpOutput(dir, name string) (restyutil.InstrumentOutput, error) {
	if dir == "" {
		return nil, nil
	}
	out, err := restyutil.NewFilesystemOutput(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("create http dump dir: %w", err)
	}
	return out, nil
}

func newApp(cfg config.Config, tel telemetry.API, out io.Writer) (*app, error) {
	pagesDump, err := dumpOutput(cfg.HTTP.DumpDir, "pages")
	if err != nil {
		return nil, err
	}
	apiDump, err := dumpOutput(cfg.HTTP.DumpDir, "api")
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg: cfg,
		tel: tel,
		out: out,
		cache: cache.Open(cfg.Cache.File, cache.Options{
			MinInterval: cfg.Cache.MinInterval(),
		}, tel),
		pages: fetch.New(fetch.Options{
			UserAgent:   cfg.HTTP.UserAgent,
			Timeout:     cfg.HTTP.Timeout(),
			BrowserLike: true,
			Dump:        pagesDump,
		}, tel),
		api: fetch.New(fetch.Options{
			UserAgent: cfg.HTTP.UserAgent,
			Timeout:   cfg.HTTP.Timeout(),
			Dump:      apiDump,
		}, tel),
	}

	a.store, err = store.Open(cfg.Database, tel)
	if err != nil {
		return nil, err
	}

	places := google.NewClient(google.Options{
		BaseURL: cfg.Google.BaseURL,
		APIKey:  cfg.Google.APIKey,
		Region:  cfg.Google.Region,
		Type:    cfg.Google.Type,
	}, a.cache, a.api.Plain(), tel)
	headers, err := yelp.AuthHeaders(cfg.Yelp.APIKey, cfg.Yelp.Headers)
	if err != nil {
		return nil, err
	}
	reviews := yelp.NewClient(cfg.Yelp.BaseURL, a.cache, a.api.WithHeaders(headers), tel)
	a.collector = collector.New(places, reviews, a.store, collector.Options{
		SuggestThreshold: cfg.Match.SuggestThreshold,
	}, tel)

	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// listBrands returns the brand list, it is only fetched once per app.
func (a *app) listBrands(ctx context.Context) ([]string, error) {
	if a.brands != nil {
		return a.brands, nil
	}
	list, err := brands.List(ctx, a.cache, a.pages.Plain(), a.cfg.Brands.PageURL)
	if err != nil {
		return nil, err
	}
	a.brands = list
	return list, nil
}

func (a *app) collect(ctx context.Context, brand, location string) (collector.Result, error) {
	err := a.cfg.RequireKeys()
	if err != nil {
		return collector.Result{}, err
	}
	return a.collector.Run(ctx, brand, location)
}

// appFromState builds an app from the config loaded by the root command.
func appFromState(out io.Writer) (*app, error) {
	return newApp(state.cfg, state.tel, out)
}
