package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// SetupDB opens an in-memory sqlite database that is closed when the test ends.
// If `schema` is non-empty it is executed first.
func SetupDB(t testing.TB, schema string) *sql.DB {
	t.Helper()

	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// every connection to ":memory:" is a different database
	sqlite.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlite.Close()
	})

	if schema != "" {
		_, err = sqlite.Exec(schema)
		if err != nil {
			t.Fatal(err)
		}
	}
	return sqlite
}
