package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-03-05 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", d)

	_, err = ParseDate("05/03/2024")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)
}

func TestParseSlotNormalizes(t *testing.T) {
	s, err := ParseSlot("9:00")
	require.NoError(t, err)
	assert.Equal(t, "09:00", s)

	_, err = ParseSlot("25:00")
	assert.Error(t, err)
}

func TestClockTodayUsesPoolTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	// 20:00 UTC on the 4th is already the 5th at UTC+7
	c := Clock{Loc: loc, Now: func() time.Time { return time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC) }}

	assert.Equal(t, "2024-03-05", c.Today())
}

func TestSlotPassed(t *testing.T) {
	c := FixedClock(time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC))

	assert.True(t, c.SlotPassed("2024-03-05", "10:00"))
	assert.False(t, c.SlotPassed("2024-03-05", "11:00"))
	assert.False(t, c.SlotPassed("2024-03-06", "07:00"))
	assert.True(t, c.SlotPassed("2024-03-04", "19:00"))
}

func TestDatesBetween(t *testing.T) {
	assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, DatesBetween("2024-02-28", "2024-03-01"))
	assert.Nil(t, DatesBetween("2024-03-02", "2024-03-01"))
}

func TestDayOfWeek(t *testing.T) {
	assert.Equal(t, "Friday", DayOfWeek("2024-03-01"))
	assert.Equal(t, "", DayOfWeek("nope"))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 1, DaysBetween("2024-03-01", "2024-03-01"))
	assert.Equal(t, 366, DaysBetween("2024-01-01", "2024-12-31"))
	assert.Equal(t, 0, DaysBetween("2024-03-02", "2024-03-01"))
	assert.Equal(t, 0, DaysBetween("soon", "2024-03-01"))

	// beyond what time.Duration can hold
	assert.Equal(t, 3652059, DaysBetween("0001-01-01", "9999-12-31"))
}
