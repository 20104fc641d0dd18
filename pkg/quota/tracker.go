package quota

import (
	"context"
	"log/slog"
	"time"
)

// Tracker enforces per-space daily quotas on provider calls. Windows
// are UTC calendar days; the count resets at UTC midnight regardless of
// the caller's timezone.
//
// Only actual provider invocations count against the quota. Requests
// served from cache must not be recorded, which is why admission
// (Allow) and accounting (Record) are separate calls: the orchestrator
// checks Allow before dispatching and calls Record only after the
// provider has been invoked.
type Tracker struct {
	config Config
	store  Store
	logger *slog.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewTracker creates a quota tracker backed by the given store.
// A nil logger falls back to slog.Default.
func NewTracker(cfg Config, store Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}

	return &Tracker{
		config: cfg,
		store:  store,
		logger: logger.With("component", "quota"),
		now:    time.Now,
	}
}

// Allow reports whether the space may make another provider call today.
// It returns a *QuotaError when the space has used up its daily limit
// and nil otherwise.
//
// Store failures do not block requests: the tracker logs the error and
// allows the call, preferring availability over strict accounting.
func (t *Tracker) Allow(ctx context.Context, spaceKey string) error {
	if !t.config.Enabled {
		return nil
	}

	limit := t.limitFor(spaceKey)
	if limit <= 0 {
		return nil
	}

	now := t.now()
	used, err := t.store.Usage(ctx, spaceKey, dayKey(now))
	if err != nil {
		t.logger.Warn("quota store read failed, allowing request",
			"space", spaceKey,
			"error", err)
		return nil
	}

	if used >= limit {
		return &QuotaError{
			SpaceKey: spaceKey,
			Used:     used,
			Limit:    limit,
			Reset:    nextReset(now),
		}
	}

	return nil
}

// Record accounts one provider call for the space and returns the
// space's new total for the current UTC day.
func (t *Tracker) Record(ctx context.Context, spaceKey string) (int64, error) {
	if !t.config.Enabled {
		return 0, nil
	}

	used, err := t.store.Increment(ctx, spaceKey, dayKey(t.now()))
	if err != nil {
		t.logger.Warn("quota store write failed",
			"space", spaceKey,
			"error", err)
		return 0, err
	}

	return used, nil
}

// StatusFor returns the space's consumption for the current UTC day.
func (t *Tracker) StatusFor(ctx context.Context, spaceKey string) (Status, error) {
	now := t.now()
	limit := t.limitFor(spaceKey)

	status := Status{
		Allowed:  true,
		SpaceKey: spaceKey,
		Limit:    limit,
		Reset:    nextReset(now),
	}

	if !t.config.Enabled {
		return status, nil
	}

	used, err := t.store.Usage(ctx, spaceKey, dayKey(now))
	if err != nil {
		return Status{}, err
	}

	status.Used = used
	if limit > 0 {
		status.Remaining = limit - used
		if status.Remaining < 0 {
			status.Remaining = 0
		}
		status.Allowed = used < limit
	}

	return status, nil
}

// Cleanup removes usage rows older than the given number of days and
// returns the number removed. A retention of zero keeps only the
// current day.
func (t *Tracker) Cleanup(ctx context.Context, retainDays int) (int, error) {
	before := dayKey(t.now().AddDate(0, 0, -retainDays))
	return t.store.Cleanup(ctx, before)
}

// limitFor returns the effective daily limit for a space, honoring
// per-space overrides.
func (t *Tracker) limitFor(spaceKey string) int64 {
	if limit, ok := t.config.Overrides[spaceKey]; ok {
		return limit
	}
	return t.config.DailyLimit
}

// dayKey returns the UTC calendar day for a point in time.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// nextReset returns the next UTC midnight after t.
func nextReset(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
