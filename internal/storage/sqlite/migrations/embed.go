// Package migrations embeds the SQLite schema for the draw store.
package migrations

import "embed"

// FS holds the SQL migration files.
//
//go:embed *.sql
var FS embed.FS
