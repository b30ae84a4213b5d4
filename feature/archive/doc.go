// Package archive persists raw Wordle announcements on object storage.
//
// Every message that the live pipeline recognizes is archived verbatim as a
// JSON object. The archive serves two purposes:
//
//   - Provenance: the original announcement text behind every stored result
//     stays available for manual conflict review.
//   - Replay: the archive is a rescan history source that is restartable,
//     oldest-first, and independent of Discord API rate limits.
//
// Object keys are messages/<channel>/<zero-padded snowflake>.json, so the
// bucket's lexical listing order equals chronological order and no sort pass
// is needed before replay.
package archive
