package db

import _ "embed"

// Schema drops and recreates every table.
//
//go:embed schema.sql
var Schema string
