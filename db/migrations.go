// Package db содержит SQL-миграции схемы, встроенные в бинарник.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir: путь к миграциям внутри Migrations.
const MigrationsDir = "migrations"
