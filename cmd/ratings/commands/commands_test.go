package commands

import (
	"bytes"
	"context"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/internal/config"
	"fastfood-ratings/internal/store"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
	"github.com/tcnksm/go-input"
)

const brandPage = `<html><body>
	<p class="chainame">M</p>
	<p class="chainame">Taco   Bell</p>
</body></html>`

const googlePage = `{
	"status": "OK",
	"results": [
		{"name": "M", "formatted_address": "1 A St, LA, CA 90001, USA", "rating": 4.0, "user_ratings_total": 10}
	]
}`

const yelpPage = `{"businesses": [
	{"name": "M", "rating": 4.5, "review_count": 20, "location": {"address1": "1 A St", "city": "LA", "state": "CA", "zip_code": "90001"}}
]}`

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/brands", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(brandPage))
	})
	mux.HandleFunc("/google", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Query().Get("query"), "taco bell") {
			w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
			return
		}
		w.Write([]byte(googlePage))
	})
	mux.HandleFunc("/yelp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yelpPage))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, serverURL string) config.Config {
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Cache.File = filepath.Join(dir, "cache.json")
	cfg.Cache.MinIntervalSeconds = -1
	cfg.Google.BaseURL = serverURL + "/google"
	cfg.Google.APIKey = "google-key"
	cfg.Yelp.BaseURL = serverURL + "/yelp"
	cfg.Yelp.APIKey = "yelp-key"
	cfg.Brands.PageURL = serverURL + "/brands"
	cfg.Database = store.Config{File: ":memory:"}
	cfg.Output.PlotDir = filepath.Join(dir, "plots")
	return cfg
}

func newTestApp(t *testing.T, cfg config.Config) (*app, *bytes.Buffer) {
	out := &bytes.Buffer{}
	a, err := newApp(cfg, &telemetry.Recorder{}, out)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, out
}

// scriptedPrompter answers with `answers` in order, answers rejected by the
// validation func are skipped the way a looping prompt would reprompt.
type scriptedPrompter struct {
	answers  []string
	rejected []string
}

func (s *scriptedPrompter) Ask(query string, opts *input.Options) (string, error) {
	for {
		if len(s.answers) == 0 {
			return "", io.EOF
		}
		answer := s.answers[0]
		s.answers = s.answers[1:]
		if opts.ValidateFunc != nil {
			err := opts.ValidateFunc(answer)
			if err != nil {
				s.rejected = append(s.rejected, answer)
				continue
			}
		}
		return answer, nil
	}
}

func TestListBrands(t *testing.T) {
	server := newTestServer(t)
	a, out := newTestApp(t, testConfig(t, server.URL))

	list, err := a.listBrands(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"m", "taco bell"}, list)

	renderBrands(out, list)
	require.Contains(t, out.String(), "taco bell")
}

func TestInteractive(t *testing.T) {
	server := newTestServer(t)
	cfg := testConfig(t, server.URL)
	a, out := newTestApp(t, cfg)

	prompter := &scriptedPrompter{answers: []string{
		"burger palace",
		" M ",
		"los angeles",
		"9",
		"one",
		"1",
		"3",
		"no",
		"exit",
	}}
	err := a.interactive(context.Background(), prompter)
	require.NoError(t, err)

	require.Equal(t, []string{"burger palace", "9", "one"}, prompter.rejected)
	require.Empty(t, prompter.answers)

	require.FileExists(t, filepath.Join(cfg.Output.PlotDir, "1_google_ratings.png"))
	require.FileExists(t, filepath.Join(cfg.Output.PlotDir, "3_weighted_ratings.png"))
	require.Contains(t, out.String(), "4.33")
}

func TestInteractiveExitFromMenu(t *testing.T) {
	server := newTestServer(t)
	a, _ := newTestApp(t, testConfig(t, server.URL))

	prompter := &scriptedPrompter{answers: []string{"taco bell", "ann arbor", "exit"}}
	err := a.interactive(context.Background(), prompter)
	require.NoError(t, err)
	require.Empty(t, prompter.answers)
}

func TestInteractiveNoData(t *testing.T) {
	server := newTestServer(t)
	cfg := testConfig(t, server.URL)
	a, out := newTestApp(t, cfg)

	// there are no taco bells, so nothing is matched
	prompter := &scriptedPrompter{answers: []string{"taco bell", "ann arbor", "1", "exit"}}
	err := a.interactive(context.Background(), prompter)
	require.NoError(t, err)
	require.Contains(t, out.String(), "nothing to plot")
	require.NoFileExists(t, filepath.Join(cfg.Output.PlotDir, "1_google_ratings.png"))
}

func TestInteractiveCollectFailure(t *testing.T) {
	server := newTestServer(t)
	cfg := testConfig(t, server.URL)
	cfg.Yelp.APIKey = ""
	a, out := newTestApp(t, cfg)

	prompter := &scriptedPrompter{answers: []string{"m", "los angeles", "exit"}}
	err := a.interactive(context.Background(), prompter)
	require.NoError(t, err)
	require.Contains(t, out.String(), "RATINGS_YELP_API_KEY")
}

func TestInteractiveTerminal(t *testing.T) {
	server := newTestServer(t)
	cfg := testConfig(t, server.URL)
	a, out := newTestApp(t, cfg)

	// the ui reads through a fresh buffered reader for every prompt, reading a
	// byte at a time keeps it from consuming the following lines
	ui := &input.UI{
		Writer: out,
		Reader: iotest.OneByteReader(strings.NewReader("m\nlos angeles\n7\nexit\n")),
	}
	err := a.interactive(context.Background(), ui)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(cfg.Output.PlotDir, "7_rating_scatter.png"))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}
