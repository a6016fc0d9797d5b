package calendar

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonth_January2025(t *testing.T) {
	dates, err := Month(2025, time.January)
	require.NoError(t, err)
	require.Len(t, dates, 31)

	assert.Equal(t, civil.Date{Year: 2025, Month: time.January, Day: 1}, dates[0].Date)
	assert.Equal(t, time.Wednesday, dates[0].DayOfWeek)
	assert.False(t, dates[0].IsWeekend)

	// 2025-01-04 是周六，2025-01-05 是周日
	assert.True(t, dates[3].IsWeekend)
	assert.True(t, dates[4].IsWeekend)
	assert.Equal(t, civil.Date{Year: 2025, Month: time.January, Day: 31}, dates[30].Date)
}

func TestMonth_LeapFebruary(t *testing.T) {
	dates, err := Month(2024, time.February)
	require.NoError(t, err)
	assert.Len(t, dates, 29)

	dates, err = Month(2025, time.February)
	require.NoError(t, err)
	assert.Len(t, dates, 28)
}

func TestMonth_InvalidMonth(t *testing.T) {
	_, err := Month(2025, 13)
	assert.Error(t, err)
	_, err = Month(2025, 0)
	assert.Error(t, err)
}

func TestInMonth(t *testing.T) {
	assert.True(t, InMonth(civil.Date{Year: 2025, Month: time.January, Day: 31}, 2025, time.January))
	assert.False(t, InMonth(civil.Date{Year: 2025, Month: time.February, Day: 1}, 2025, time.January))
	assert.False(t, InMonth(civil.Date{Year: 2025, Month: time.January, Day: 32}, 2025, time.January))
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, IsWeekend(civil.Date{Year: 2025, Month: time.January, Day: 10}))
	assert.True(t, IsWeekend(civil.Date{Year: 2025, Month: time.January, Day: 11}))
	assert.True(t, IsWeekend(civil.Date{Year: 2025, Month: time.January, Day: 12}))
	assert.Equal(t, IsWeekend(civil.Date{Year: 2025, Month: time.January, Day: 12}), Info(civil.Date{Year: 2025, Month: time.January, Day: 12}).IsWeekend)
}

func TestParseYearMonth(t *testing.T) {
	y, m, err := ParseYearMonth("2025-01")
	require.NoError(t, err)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.January, m)

	_, _, err = ParseYearMonth("2025-13")
	assert.Error(t, err)
}
