// Package wordle tracks per-user Wordle results announced by the official
// Wordle bot in a shared Discord channel.
//
// The feature is split into small core packages:
//
//   - parser: turns one raw announcement into zero or one structured result
//   - store: the persistence interface plus GORM and in-memory backends
//   - ingest: the live pipeline (parse, then atomic first-writer insert)
//   - reconcile: the full-history rescan that backfills and repairs drift
//   - stats: read-side streaks, averages, win rate and the leaderboard
//
// This package wires them into a Service and exposes the HTTP surface.
// Live ingestion never overwrites; only the reconciler mutates existing
// records, and only when history proves the stored value stale. Ambiguity is
// always reported instead of guessed away.
package wordle
