// Package sqlite stores the rename history in a local SQLite database.
//
// It uses modernc.org/sqlite, a pure Go driver, so the binary needs no CGO
// for storage. The schema is managed by numbered migrations embedded from the
// migrations/ directory; applied versions are tracked in schema_migrations.
//
// By default the database lives at ~/.config/ramener/history.db.
package sqlite
