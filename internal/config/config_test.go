package config

import (
	"fastfood-ratings/internal/google"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json5"))
	require.NoError(t, err)

	defaults := Defaults()
	require.Equal(t, defaults.Cache, cfg.Cache)
	require.Equal(t, google.DefaultBaseURL, cfg.Google.BaseURL)
	require.Equal(t, time.Second, cfg.Cache.MinInterval())
	require.Equal(t, time.Duration(0), cfg.HTTP.Timeout())
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		// comments are allowed
		cache: { file: "other.json", min_interval_seconds: 0.5 },
		google: { api_key: "from-file" },
		yelp: { headers: { "From": "someone@example.com" } },
		http: { timeout_seconds: 10 },
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{
		google: { api_key: "from-local" },
	}`)

	cfg, err := Load(filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "other.json", cfg.Cache.File)
	require.Equal(t, 500*time.Millisecond, cfg.Cache.MinInterval())
	require.Equal(t, "from-local", cfg.Google.APIKey)
	require.Equal(t, google.DefaultRegion, cfg.Google.Region)
	require.Equal(t, "someone@example.com", cfg.Yelp.Headers["From"])
	require.Equal(t, Defaults().Yelp.Headers["User-Agent"], cfg.Yelp.Headers["User-Agent"])
	require.Equal(t, 10*time.Second, cfg.HTTP.Timeout())
}

func TestLoadZeroOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{ match: { suggest_threshold: 0.8 } }`)

	cfg, err := Load(filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, 0.8, cfg.Match.SuggestThreshold)

	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ match: { suggest_threshold: 0 } }`)
	cfg, err = Load(filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, 0.0, cfg.Match.SuggestThreshold)
	// untouched sections keep their defaults
	require.Equal(t, Defaults().Yelp.Headers, cfg.Yelp.Headers)
}

func TestLoadEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{ google: { api_key: "from-file" } }`)

	t.Setenv("RATINGS_GOOGLE_API_KEY", "from-env")
	t.Setenv("RATINGS_YELP_API_KEY", "yelp-env")
	t.Setenv("RATINGS_CACHE_FILE", "env-cache.json")
	t.Setenv("RATINGS_DB_FILE", "env.sqlite")

	cfg, err := Load(filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Google.APIKey)
	require.Equal(t, "yelp-env", cfg.Yelp.APIKey)
	require.Equal(t, "env-cache.json", cfg.Cache.File)
	require.Equal(t, "env.sqlite", cfg.Database.File)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{ cache: `)

	_, err := Load(filepath.Join(dir, "config.json5"))
	require.Error(t, err)
}

func TestRequireKeys(t *testing.T) {
	cfg := Defaults()
	err := cfg.RequireKeys()
	require.ErrorContains(t, err, "RATINGS_GOOGLE_API_KEY")
	require.ErrorContains(t, err, "RATINGS_YELP_API_KEY")

	cfg.Google.APIKey = "a"
	cfg.Yelp.APIKey = "b"
	require.NoError(t, cfg.RequireKeys())
}
