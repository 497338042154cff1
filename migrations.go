// Package lemmony holds assets embedded into the lemmony binary.
package lemmony

import "embed"

// Migrations contains the goose migrations of the postgres processed store.
//
//go:embed migrations/*.sql
var Migrations embed.FS
