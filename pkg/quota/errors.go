package quota

import (
	"fmt"
	"time"
)

// QuotaError reports that a space has exhausted its daily generation
// budget. The request was rejected before any provider call was made.
type QuotaError struct {
	// SpaceKey identifies the space that hit its limit.
	SpaceKey string

	// Used is the number of provider calls recorded for the current
	// UTC day.
	Used int64

	// Limit is the effective daily limit for the space.
	Limit int64

	// Reset is when the window rolls over (next UTC midnight).
	Reset time.Time
}

// Error implements the error interface.
func (e *QuotaError) Error() string {
	return fmt.Sprintf("space %q exceeded its daily generation quota (%d of %d calls used)", e.SpaceKey, e.Used, e.Limit)
}
