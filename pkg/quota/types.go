package quota

import (
	"context"
	"time"
)

// Config controls daily quota enforcement.
type Config struct {
	// Enabled controls whether quotas are enforced. When false the
	// tracker allows every request and records nothing.
	Enabled bool

	// DailyLimit is the number of provider calls a space may consume
	// per UTC day. Zero or negative means no limit.
	DailyLimit int64

	// Overrides maps space keys to per-space daily limits, replacing
	// DailyLimit for those spaces.
	Overrides map[string]int64
}

// Status reports a space's consumption for the current UTC day.
type Status struct {
	// Allowed is true when the space has budget remaining.
	Allowed bool

	// SpaceKey identifies the space.
	SpaceKey string

	// Used is the number of provider calls recorded today.
	Used int64

	// Limit is the effective daily limit for this space.
	// Zero means unlimited.
	Limit int64

	// Remaining is how many calls the space has left today.
	Remaining int64

	// Reset is when the current window ends (next UTC midnight).
	Reset time.Time
}

// Store persists per-space daily call counts. Days are identified by
// their UTC date in "2006-01-02" form, so lexicographic order matches
// chronological order.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Usage returns the number of calls recorded for the space on the
	// given day. Spaces with no recorded calls return zero.
	Usage(ctx context.Context, spaceKey, day string) (int64, error)

	// Increment adds one call for the space on the given day and
	// returns the new total.
	Increment(ctx context.Context, spaceKey, day string) (int64, error)

	// Cleanup removes usage rows for days before the given day and
	// returns the number removed.
	Cleanup(ctx context.Context, before string) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
