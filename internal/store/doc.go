// Package store provides SQLite-backed durable storage for the Spout data
// model: profiles and their identity links, groups with admin/ban/membership
// sets, and threaded topic/post content.
//
// All SQL lives here, organized per domain (profiles.go, groups.go,
// topics.go, posts.go). Operations that write more than one row under an
// invariant - profile+identity, group+initial admin - run inside a single
// transaction; a partially applied write is never observable.
//
// # Conventions
//
//   - Single-row lookups return sql.ErrNoRows when the row is absent;
//     callers translate that into their own not-found failure.
//   - List queries return an empty slice, never nil, and order
//     deterministically: by created_at with the id as tie-breaker where a
//     timestamp exists, by id alone otherwise (ids are UUIDv7, so id order
//     is creation order).
//   - Admin and ban set writes use INSERT ... ON CONFLICT DO NOTHING and
//     plain DELETE: adding a present pair or removing an absent one is a
//     no-op, not an error.
//   - Uniqueness races (profile name, group membership) surface as sqlite3
//     constraint errors; arbitration belongs to the database, not to
//     read-before-write checks.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: referential integrity and delete cascades
package store
