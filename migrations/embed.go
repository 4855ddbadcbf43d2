// Package migrations embeds the schema files the services apply at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
