// Package migrations содержит SQL миграции goose для postgres хранилища.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
