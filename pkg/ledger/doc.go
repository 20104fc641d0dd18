// Package ledger keeps an append-only accounting trail of generation
// requests.
//
// # What Is Recorded
//
// One Record per orchestration outcome: identifiers (space, page,
// model), the request fingerprint, the outcome classification, cache
// disposition, latency, and token counts. Prompt text, page context,
// and completion text are never stored; the only trace of the inputs
// is the fingerprint, and the only trace of what redaction matched is
// the class names in Detected.
//
// # Async Recording
//
// The Recorder decouples orchestration from ledger writes:
//
//   - Record() stamps an ID and timestamp and enqueues (non-blocking)
//   - A background goroutine drains the queue and appends to the store
//   - When the queue is full the oldest pending record is dropped
//   - Close() drains remaining records before returning
//
// # Stores
//
// Two stores are provided:
//
//   - MemoryStore: bounded ring buffer, lost on restart
//   - SQLiteStore: durable file-backed store with WAL mode
//
// Retention for both is handled by the retention subpackage, which
// deletes records past a configured age on a cron schedule.
package ledger
