// Package spool persists encoded record blobs in SQLite.
//
// The spool is a pass-through store: it never decodes the blobs it is
// given, so a record written and read back without modification stays
// byte-identical.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5 seconds on lock contention
//   - user_version: Incremental schema migrations
//
// # Ordering
//
// Entry ids are UUIDv7, so List returns entries in creation order by
// sorting on id alone.
package spool
