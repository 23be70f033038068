// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - SnapshotStore: Snapshot lifecycle and the current pointer
//   - PanelStore: Panel record reads, live or archived
//   - AssociationStore: Patient association ledger persistence
//   - CoordinateCache: Resolved genomic interval caching
//   - SchedulerStore: Scheduler state persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.panelgenemapper/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode, plus a process-level mutex around multi-statement writes.
package sqlite
