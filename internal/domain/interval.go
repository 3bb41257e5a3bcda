package domain

import "time"

// DateRange is a closed calendar-day interval: both Start and End are
// occupied nights.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval is well formed (End not before Start).
func (r DateRange) Valid() bool { return !r.End.Before(r.Start) }

// Overlaps reports whether two closed intervals share at least one day.
// A booking ending the day another starts counts as overlapping. The
// checkout grace day (see DeriveStatus) does not widen this test.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}
