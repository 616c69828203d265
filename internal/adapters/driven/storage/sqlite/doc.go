// Package sqlite provides the SQLite-backed BRD store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each entity list lives in its own table with a
// position column, so documents read back in the order they were saved.
//
// # Data Location
//
// By default, the database is stored at ~/.brdify/brdify.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
