package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-01-15", "2024-01-15"},
		{"2024-01-15T13:45:00", "2024-01-15"},
		{"2024-01-15T13:45:00.123456", "2024-01-15"},
		{"2024-01-15T23:59:59Z", "2024-01-15"},
		{" 2024-02-29 ", "2024-02-29"},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tc.in, err)
		}
		if d.String() != tc.want {
			t.Fatalf("ParseDate(%q) = %s, want %s", tc.in, d, tc.want)
		}
	}

	for _, bad := range []string{"", "15/01/2024", "2023-02-29", "yesterday"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestMonthBounds(t *testing.T) {
	cases := []struct {
		year        int
		month       time.Month
		first, last string
	}{
		{2024, time.January, "2024-01-01", "2024-01-31"},
		{2024, time.February, "2024-02-01", "2024-02-29"},
		{2023, time.February, "2023-02-01", "2023-02-28"},
		{2024, time.December, "2024-12-01", "2024-12-31"},
		{2024, time.April, "2024-04-01", "2024-04-30"},
	}
	for _, tc := range cases {
		first, last := MonthBounds(tc.year, tc.month)
		assert.Equal(t, tc.first, first.String())
		assert.Equal(t, tc.last, last.String())
	}
}

func TestDateComparisons(t *testing.T) {
	start := NewDate(2024, time.January, 1)
	end := NewDate(2024, time.January, 31)

	assert.True(t, start.Within(start, end))
	assert.True(t, end.Within(start, end))
	assert.False(t, NewDate(2024, time.February, 1).Within(start, end))
	assert.False(t, NewDate(2023, time.December, 31).Within(start, end))
	assert.Equal(t, 30, end.DaysSince(start))
	assert.True(t, start.Before(end))
	assert.True(t, end.After(start))
	assert.True(t, start.Equal(NewDate(2024, time.January, 1)))
}

func TestDateOfDropsTime(t *testing.T) {
	loc := time.FixedZone("X", 5*3600)
	d := DateOf(time.Date(2024, 3, 10, 1, 30, 0, 0, loc))
	require.Equal(t, "2024-03-10", d.String())
	assert.Equal(t, time.UTC, d.Location())
	assert.Empty(t, Date{}.String())
}
