// Package persisted provides durable in-memory containers — an ordered
// List and a keyed Map — backed by an append-only operation log on a local
// file. Every mutation is synchronously recorded so the container can be
// reconstructed by replaying the log after a restart.
//
// The log itself has no notion of list or map semantics; List and Map are
// thin adapters that translate their mutations into log records and
// rebuild their state from replayed records. Stack, in turn, is a thin
// adapter over Map.
package persisted
