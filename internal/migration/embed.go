package migration

import "embed"

const migrationsDir = "migrations"

// Forward-only migrations, applied in lexical order.
//
//go:embed migrations/*.up.sql
var embeddedMigrations embed.FS
