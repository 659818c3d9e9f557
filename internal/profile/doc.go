// Package profile persists per-user engagement state: the bounded scan
// history log and the XP/leveling profile.
//
// State lives in a string-keyed KV layer under exactly two keys,
// "history" and "profile"; the production KV is SQLite with JSON
// values, and absence of a key is the only "not initialized" signal.
// The exported Store operations never propagate storage errors: reads
// substitute empty history or the default profile, writes degrade to
// logged no-ops. The KV layer itself returns real errors, so the
// conversion to defaults happens in one auditable place.
//
// The history log is newest-first and never exceeds 200 items; the
// profile level is always recomputed from XP, never trusted from
// storage. A per-store mutex plus a file lock on the database give
// single-writer semantics for the read-modify-write operations.
package profile
