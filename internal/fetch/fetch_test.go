package fetch

import (
	"context"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/lib/restyutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("not here"))
			return
		}
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	f := New(Options{UserAgent: "ratings-test"}, &telemetry.Recorder{})

	body, err := f.Plain()(context.Background(), server.URL+"/")
	require.NoError(t, err)
	require.Equal(t, "hello", body)
	require.Equal(t, "ratings-test", gotHeaders.Get("User-Agent"))

	body, err = f.WithHeaders(map[string]string{"Authorization": "Bearer key"})(context.Background(), server.URL+"/")
	require.NoError(t, err)
	require.Equal(t, "hello", body)
	require.Equal(t, "Bearer key", gotHeaders.Get("Authorization"))

	// status codes are not validated
	body, err = f.Get(context.Background(), server.URL+"/missing", nil)
	require.NoError(t, err)
	require.Equal(t, "not here", body)
}

func TestGetTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	tel := &telemetry.Recorder{}
	f := New(Options{}, tel)
	_, err := f.Get(context.Background(), url, nil)
	require.Error(t, err)
	require.NotEmpty(t, tel.Reports("broken"))
}

func TestDump(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("dumped body"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	out, err := restyutil.NewFilesystemOutput(dir)
	require.NoError(t, err)

	f := New(Options{Dump: out}, &telemetry.Recorder{})
	_, err = f.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.Contains(t, string(contents), "---- RESPONSE ----")
	require.Contains(t, string(contents), "dumped body")
}
