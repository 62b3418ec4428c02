// Package db ships the schema migrations inside the binaries that need them.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
