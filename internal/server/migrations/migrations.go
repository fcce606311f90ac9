// Package migrations embeds the SQL schema migrations applied with goose on
// startup. Migrations are idempotent: a fresh database gets the full schema,
// an existing one is left alone.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
