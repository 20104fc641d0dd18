// Package retention ages out old ledger records on a schedule.
//
// # Retention Policy
//
// The Pruner deletes records older than a configured number of days.
// Deletion runs in bounded batches so a large backlog never holds the
// store's write lock for a whole pass. A retention of zero keeps
// records forever.
//
// # Scheduling
//
// The Scheduler runs named maintenance jobs on a cron expression:
//
//	pruner := retention.NewPruner(store, &retention.Config{
//	    RetentionDays: 90,
//	})
//	scheduler := retention.NewScheduler("0 3 * * *", pruner.Job())
//	if err := scheduler.Start(ctx); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
//
// Additional jobs (such as the quota store's day cleanup) can share the
// schedule. An empty schedule disables the scheduler; pruning can still
// be triggered manually:
//
//	deleted, err := pruner.Prune(ctx)
package retention
