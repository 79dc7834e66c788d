// Package migrations holds the SQL schema for the Postgres backend.
package migrations

import "embed"

// FS contains the migration files, applied in file name order.
//
//go:embed *.sql
var FS embed.FS
