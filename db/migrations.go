// Package db embeds the Postgres migrations applied by cmd/migrate.
package db

import "embed"

// Files holds the migration scripts, applied in filename order.
//
//go:embed *.sql
var Files embed.FS
