// Package migrations embeds the schema migrations for the tutora
// SQLite store (documents, chunks, exclusions, vectors).
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
