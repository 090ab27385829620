// Package config loads the configuration of the ratings cli.
package config

import (
	"errors"
	"fastfood-ratings/internal/brands"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/internal/google"
	"fastfood-ratings/internal/store"
	"fastfood-ratings/internal/yelp"
	"fastfood-ratings/lib/configutil"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

type Cache struct {
	File string `json:"file" env:"RATINGS_CACHE_FILE"`

	// zero means the default of one second, negative disables the delay
	MinIntervalSeconds float64 `json:"min_interval_seconds" env:"RATINGS_CACHE_MIN_INTERVAL_SECONDS"`
}

func (c Cache) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalSeconds * float64(time.Second))
}

type Google struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key" env:"RATINGS_GOOGLE_API_KEY"`
	Region  string `json:"region"`
	Type    string `json:"type"`
}

type Yelp struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key" env:"RATINGS_YELP_API_KEY"`

	// sent with every request on top of the authorization header
	Headers map[string]string `json:"headers"`
}

type Brands struct {
	PageURL string `json:"page_url"`
}

type Match struct {
	// minimum jaro-winkler similarity for a suggestion to be reported, 0 disables suggestions
	SuggestThreshold float64 `json:"suggest_threshold"`
}

type Output struct {
	PlotDir string `json:"plot_dir" env:"RATINGS_PLOT_DIR"`
}

type Log struct {
	File string `json:"file" env:"RATINGS_LOG_FILE"`
}

type HTTP struct {
	UserAgent      string  `json:"user_agent"`
	TimeoutSeconds float64 `json:"timeout_seconds"`

	// if set, every http exchange is dumped into this directory
	DumpDir string `json:"dump_dir" env:"RATINGS_HTTP_DUMP_DIR"`
}

func (h HTTP) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds * float64(time.Second))
}

type Config struct {
	Cache     Cache                `json:"cache"`
	Google    Google               `json:"google"`
	Yelp      Yelp                 `json:"yelp"`
	Brands    Brands               `json:"brands"`
	Match     Match                `json:"match"`
	Database  store.Config         `json:"database"`
	Output    Output               `json:"output"`
	Log       Log                  `json:"log"`
	HTTP      HTTP                 `json:"http"`
	Telemetry telemetry.OtlpConfig `json:"telemetry"`
}

const userAgent = "fastfood-ratings (restaurant ratings collector)"

func Defaults() Config {
	return Config{
		Cache: Cache{
			File:               "cache.json",
			MinIntervalSeconds: 1,
		},
		Google: Google{
			BaseURL: google.DefaultBaseURL,
			Region:  google.DefaultRegion,
			Type:    google.DefaultType,
		},
		Yelp: Yelp{
			BaseURL: yelp.DefaultBaseURL,
			Headers: map[string]string{
				"User-Agent": userAgent,
			},
		},
		Brands: Brands{
			PageURL: brands.DefaultPageURL,
		},
		Match: Match{
			SuggestThreshold: 0.9,
		},
		Database: store.Config{
			File: "ratings.sqlite",
		},
		Output: Output{
			PlotDir: "plots",
		},
		HTTP: HTTP{
			UserAgent: userAgent,
		},
	}
}

// Load reads `path` (and its .local override) on top of Defaults, then applies the
// environment. A missing config file is not an error.
func Load(path string) (Config, error) {
	cfg, err := configutil.ReadConfig(path, Defaults())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	err = env.Parse(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}
	return cfg, nil
}

// RequireKeys returns an error naming every api key that is missing.
func (c Config) RequireKeys() error {
	var errs []error
	if c.Google.APIKey == "" {
		errs = append(errs, errors.New("google.api_key (RATINGS_GOOGLE_API_KEY) is not set"))
	}
	if c.Yelp.APIKey == "" {
		errs = append(errs, errors.New("yelp.api_key (RATINGS_YELP_API_KEY) is not set"))
	}
	return errors.Join(errs...)
}
