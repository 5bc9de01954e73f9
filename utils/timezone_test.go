package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayWindowUTC_OffsetRollsTheDate(t *testing.T) {
	// 20:00 UTC is already 05:00 the next day at UTC+9.
	now := time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC)
	start, end := DayWindowUTC(now, 9)

	assert.Equal(t, time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC), end)
}

func TestDayWindowUTC_ZeroOffset(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	start, end := DayWindowUTC(now, 0)

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestInDayWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC)

	// Inside the UTC+9 day that contains now
	assert.True(t, InDayWindow("2026-08-31T16:00:00Z", now, 9))
	assert.True(t, InDayWindow("2026-09-01T14:59:59Z", now, 9))

	// Just outside either edge
	assert.False(t, InDayWindow("2026-08-31T14:59:59Z", now, 9))
	assert.False(t, InDayWindow("2026-09-01T15:00:00Z", now, 9))
}

func TestInDayWindow_BadTimestamp(t *testing.T) {
	assert.False(t, InDayWindow("not-a-time", time.Now(), 9))
	assert.False(t, InDayWindow("", time.Now(), 9))
}

func TestStringSet(t *testing.T) {
	set := StringSet([]string{"a", "b", "a"})
	assert.Len(t, set, 2)
	_, ok := set["a"]
	assert.True(t, ok)
}
