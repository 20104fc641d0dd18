// Package cache provides the bounded, time-expiring response cache that
// backs generation deduplication.
//
// # Overview
//
// The cache maps request fingerprints to generated text. It is strictly
// in-memory and in-process: nothing survives a restart, and no response
// content is ever written to disk.
//
// Three rules bound the structure:
//   - TTL: an entry older than the configured time-to-live is treated as
//     absent and purged on the read that finds it (default 1 hour).
//   - Capacity: inserting a new key at capacity first evicts the single
//     oldest entry by creation time (default 1000 entries). Eviction is
//     creation-order, not access-order: reads never refresh an entry.
//   - Replacement: writing an existing key replaces the entry wholesale
//     with a fresh creation timestamp and never evicts.
//
// # Concurrency
//
// Keys are distributed over independently locked shards, so operations on
// unrelated keys never contend and there is no structure-wide lock.
// Individual key operations are atomic; the cache makes no cross-key
// ordering promise, and under concurrent write pressure at the capacity
// boundary entries may briefly overshoot the bound before eviction
// converges. Ties between equal creation timestamps are broken by key
// order so eviction is deterministic for a given snapshot.
package cache
