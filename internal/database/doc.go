// Package database provides SQLite-based run history for pwforge.
//
// Every generation run is recorded with its ULID, timing, output file,
// counters and the full JSON run report, so past runs can be listed and
// their reports rendered again. The per-stage counters are also kept in
// their own table for querying.
//
// The database is a single file, pwforge.db, in the XDG data directory.
// It uses modernc.org/sqlite, which needs no CGO.
package database
