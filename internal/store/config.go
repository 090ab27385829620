package store

import (
	"database/sql"
	"errors"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Config chooses the database, a local sqlite file or a remote libsql url when `URL` is set.
type Config struct {
	File string `json:"file" env:"RATINGS_DB_FILE"`
	URL  string `json:"url" env:"RATINGS_DB_URL"`
}

func (config Config) OpenDB() (*sql.DB, error) {
	if config.URL != "" {
		if !strings.HasPrefix(config.URL, "libsql://") &&
			!strings.HasPrefix(config.URL, "https://") &&
			!strings.HasPrefix(config.URL, "http://") {
			return nil, errors.New("database url must be a libsql, https or http url")
		}
		return sql.Open("libsql", config.URL)
	}

	if config.File == "" {
		return nil, errors.New("a database path was not specified")
	}
	db, err := sql.Open("sqlite", config.File)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases from being one per connection
	db.SetMaxOpenConns(1)
	return db, nil
}
