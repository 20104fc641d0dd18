// Package quota enforces per-space daily limits on provider calls.
//
// # Overview
//
// Each space gets a daily budget of generation calls, counted in UTC
// calendar days. A request served from cache does not consume budget;
// only actual provider invocations are recorded. The Tracker separates
// admission from accounting so the orchestrator can check the budget
// before dispatching and record consumption only after the provider
// has actually been called:
//
//	if err := tracker.Allow(ctx, spaceKey); err != nil {
//	    return err // *quota.QuotaError
//	}
//	result, err := provider.Complete(ctx, req)
//	if err == nil {
//	    tracker.Record(ctx, spaceKey)
//	}
//
// # Stores
//
// Two stores are provided:
//
//   - MemoryStore: fast in-process counters, lost on restart
//   - SQLiteStore: file-backed counters that survive restarts
//
// The memory store is the default. Deployments that restart frequently
// should use SQLite so a restart does not hand every space a fresh
// budget mid-day.
//
// # Overrides
//
// Individual spaces can carry their own daily limit through
// Config.Overrides, replacing the global DailyLimit. A limit of zero
// or below means the space is unlimited.
//
// # Thread Safety
//
// The Tracker and both stores are safe for concurrent use from
// multiple goroutines.
package quota
