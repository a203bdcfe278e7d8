// Package store provides SQLite-backed durable storage for calibrated assets.
//
// The store holds two tables:
//   - assets: one row per physical asset (sensor, tool)
//   - calibration_runs: a journal of every mutating normalize/recalibrate run
//
// # Invariants
//
// Serial uniqueness:
//   - serial_number is UNIQUE (inline constraint plus a unique index added by
//     migration v1 for stores created by older tools)
//   - InsertAsset uses ON CONFLICT(serial_number) DO NOTHING, so duplicate
//     imports are silently ignored
//
// Canonical dates:
//   - Every write path takes a caldate.Date and stores Date.String()
//   - Canonical dates compare correctly as strings
//
// No deletes:
//   - Assets are inserted and updated, never removed
//
// Deterministic ordering:
//   - Asset queries ORDER BY id ASC, run queries ORDER BY seq
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - _txlock=immediate: Write transactions take the reserved lock at BEGIN,
//     so overlapping runs serialize instead of failing at first write
package store
