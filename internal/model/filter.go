package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportFilter scopes a record query. TeamID always comes from the principal,
// never from the request body.
type ReportFilter struct {
	TeamID     uuid.UUID
	Range      DateRange
	LocationID *uuid.UUID
	ZoneID     *uuid.UUID
}

// ClampRange fills in a trailing default window when dates are missing and
// caps oversized windows. An inverted range is left as-is for the service to
// reject.
func (f ReportFilter) ClampRange(defaultDays, maxDays int) ReportFilter {
	if f.Range.To.IsZero() {
		f.Range.To = time.Now()
	}
	if f.Range.From.IsZero() {
		f.Range.From = f.Range.To.AddDate(0, 0, -defaultDays)
	}
	maxWindow := time.Duration(maxDays) * 24 * time.Hour
	if maxDays > 0 && f.Range.To.Sub(f.Range.From) > maxWindow {
		f.Range.From = f.Range.To.Add(-maxWindow)
	}
	return f
}
