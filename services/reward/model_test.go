package reward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekWindowMidweek(t *testing.T) {
	// Wednesday 2026-08-26 15:04 UTC
	now := time.Date(2026, 8, 26, 15, 4, 0, 0, time.UTC)

	start, end := WeekWindow(now, time.UTC)

	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestWeekWindowOnMonday(t *testing.T) {
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	start, end := WeekWindow(now, time.UTC)

	assert.Equal(t, now, start)
	assert.Equal(t, now.AddDate(0, 0, 7), end)
}

func TestWeekWindowOnSunday(t *testing.T) {
	// Sunday belongs to the week that started six days earlier, not the next
	// one.
	now := time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC)

	start, _ := WeekWindow(now, time.UTC)

	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), start)
}

func TestWeekWindowTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Monday 2026-08-24 02:00 UTC is still Sunday evening in New York, so the
	// local week began on the previous Monday.
	now := time.Date(2026, 8, 24, 2, 0, 0, 0, time.UTC)

	start, end := WeekWindow(now, loc)

	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, loc), end)
	assert.True(t, end.Sub(start) > 0)
}
