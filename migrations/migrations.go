// Package migrations embebe los scripts SQL versionados que goose aplica al arranque.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
