package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCalendarDate(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		day     int
		wantErr bool
	}{
		{"first of month", 2024, time.March, 1, false},
		{"leap day", 2024, time.February, 29, false},
		{"leap day in common year", 2023, time.February, 29, true},
		{"day zero", 2024, time.March, 0, true},
		{"day 32", 2024, time.January, 32, true},
		{"31 april", 2024, time.April, 31, true},
		{"month 13", 2024, time.Month(13), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewCalendarDate(tt.year, tt.month, tt.day)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, CalendarDate{Year: tt.year, Month: tt.month, Day: tt.day}, d)
		})
	}
}

func TestCalendarDateOrdering(t *testing.T) {
	a := CalendarDate{2024, time.March, 10}
	b := CalendarDate{2024, time.March, 24}
	c := CalendarDate{2025, time.January, 1}

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, b.Before(c))
	assert.False(t, a.After(a))
	assert.True(t, a.Equal(CalendarDate{2024, time.March, 10}))
}

func TestCalendarDateDaysSince(t *testing.T) {
	today := CalendarDate{2024, time.March, 10}

	assert.Equal(t, 0, today.DaysSince(today))
	assert.Equal(t, 1, CalendarDate{2024, time.March, 11}.DaysSince(today))
	assert.Equal(t, 14, CalendarDate{2024, time.March, 24}.DaysSince(today))
	assert.Equal(t, -9, CalendarDate{2024, time.March, 1}.DaysSince(today))
	// Crosses the end of March DST change in Europe; UTC arithmetic is unaffected.
	assert.Equal(t, 22, CalendarDate{2024, time.April, 1}.DaysSince(today))
}

func TestDateOfDropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2024, time.March, 10, 23, 30, 0, 0, loc)

	assert.Equal(t, CalendarDate{2024, time.March, 10}, DateOf(now))
}

func TestCalendarDateJSON(t *testing.T) {
	d := CalendarDate{2024, time.March, 5}

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(b))

	var parsed CalendarDate
	require.NoError(t, json.Unmarshal(b, &parsed))
	assert.Equal(t, d, parsed)

	var empty CalendarDate
	require.NoError(t, json.Unmarshal([]byte("null"), &empty))
	assert.True(t, empty.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"05-03-2024"`), &parsed))
}

func TestSnapshotDates(t *testing.T) {
	var nilSnapshot *Snapshot
	_, ok := nilSnapshot.Dates("Grijze container")
	assert.False(t, ok)

	snap := &Snapshot{Schedule: CollectionSchedule{
		"Grijze container": {{2024, time.March, 10}},
		"Oud papier":       {},
	}}

	dates, ok := snap.Dates("Grijze container")
	assert.True(t, ok)
	assert.Len(t, dates, 1)

	_, ok = snap.Dates("Oud papier")
	assert.True(t, ok)

	_, ok = snap.Dates("Kerstboom")
	assert.False(t, ok)

	assert.Equal(t, []string{"Grijze container", "Oud papier"}, snap.Schedule.Categories())
}
