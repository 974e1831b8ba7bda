// Package migrations embeds the client keystore's goose migration files.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
