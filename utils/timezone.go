package utils

import "time"

// Swipes are stored with UTC timestamps while the daily quota follows a local
// calendar day (KST by default, offset configurable). These helpers translate
// between the two; there is no explicit midnight reset job, "today" is simply
// recomputed from the clock on every call.

// DayWindowUTC returns the UTC range [start, end) covering the local calendar
// day that contains now.
func DayWindowUTC(now time.Time, offsetHours int) (time.Time, time.Time) {
	offset := time.Duration(offsetHours) * time.Hour
	local := now.UTC().Add(offset)
	startLocal := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	start := startLocal.Add(-offset)
	return start, start.Add(24 * time.Hour)
}

// InDayWindow reports whether the RFC 3339 timestamp ts falls within the local
// calendar day containing now. Unparseable timestamps are counted as outside.
func InDayWindow(ts string, now time.Time, offsetHours int) bool {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return false
	}
	start, end := DayWindowUTC(now, offsetHours)
	t = t.UTC()
	return !t.Before(start) && t.Before(end)
}

// NowRFC3339 formats the current UTC time the way every table stores it.
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
