package capacity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery-backend/internal/storage"
)

var calcFrom = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func defaultSettings() *storage.ScheduleSettings {
	return &storage.ScheduleSettings{
		LeadTimeDays:          2,
		DefaultWorkMinutes:    240,
		DefaultAvailableHours: []string{"10:00-12:00", "14:00-16:00"},
	}
}

func TestCompute_EmptyScheduleShowsFullBudget(t *testing.T) {
	snap := Compute(defaultSettings(), NewCostTable(testCategories()), nil, calcFrom, HorizonDays)

	require.Len(t, snap.Horizon, HorizonDays)
	for _, day := range snap.Horizon {
		assert.Equal(t, 240, snap.AvailableMinutesPerDay[day], "day %s", day)
	}
	assert.Empty(t, snap.AdminBlockedDates)
	assert.Equal(t, 2, snap.LeadTimeDays)

	// Never nil: the blocked-dates list must serialize as [] for clients.
	blockedJSON, err := json.Marshal(snap.AdminBlockedDates)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(blockedJSON))
}

func TestCompute_BookedMinutesReduceAvailability(t *testing.T) {
	booked := map[string]int{"2026-03-05": 200}

	snap := Compute(defaultSettings(), NewCostTable(testCategories()), booked, calcFrom, HorizonDays)

	assert.Equal(t, 40, snap.AvailableMinutesPerDay["2026-03-05"])
}

func TestCompute_AvailabilityClampedAtZero(t *testing.T) {
	booked := map[string]int{"2026-03-05": 999}

	snap := Compute(defaultSettings(), NewCostTable(testCategories()), booked, calcFrom, HorizonDays)

	assert.Equal(t, 0, snap.AvailableMinutesPerDay["2026-03-05"])
}

func TestCompute_BlockedDayDominatesWorkMinutes(t *testing.T) {
	settings := defaultSettings()
	minutes := 500
	settings.DateOverrides = []storage.DateOverride{
		{Date: "2026-03-10", IsBlocked: true, WorkMinutes: &minutes},
	}

	snap := Compute(settings, NewCostTable(testCategories()), nil, calcFrom, HorizonDays)

	assert.Equal(t, 0, snap.AvailableMinutesPerDay["2026-03-10"])
	assert.Contains(t, snap.AdminBlockedDates, "2026-03-10")
	assert.True(t, snap.IsBlocked("2026-03-10"))
}

func TestCompute_OverrideReplacesDefaultBudget(t *testing.T) {
	settings := defaultSettings()
	minutes := 60
	settings.DateOverrides = []storage.DateOverride{
		{Date: "2026-03-12", WorkMinutes: &minutes},
	}

	snap := Compute(settings, NewCostTable(testCategories()), map[string]int{"2026-03-12": 20}, calcFrom, HorizonDays)

	assert.Equal(t, 40, snap.AvailableMinutesPerDay["2026-03-12"])
}

func TestSnapshot_LeadCutoff(t *testing.T) {
	snap := Compute(defaultSettings(), NewCostTable(testCategories()), nil, calcFrom, HorizonDays)

	// leadTimeDays = 2 → first bookable day is the third horizon day.
	assert.Equal(t, "2026-03-03", snap.LeadCutoff())
}

func TestSnapshot_LeadCutoffBeyondHorizon(t *testing.T) {
	settings := defaultSettings()
	settings.LeadTimeDays = HorizonDays + 1

	snap := Compute(settings, NewCostTable(testCategories()), nil, calcFrom, HorizonDays)

	assert.Equal(t, "", snap.LeadCutoff())
}

func TestSnapshot_HoursFor(t *testing.T) {
	settings := defaultSettings()
	settings.DateOverrides = []storage.DateOverride{
		{Date: "2026-03-15", AvailableHours: []string{"16:00-18:00"}},
	}

	snap := Compute(settings, NewCostTable(testCategories()), nil, calcFrom, HorizonDays)

	assert.Equal(t, []string{"16:00-18:00"}, snap.HoursFor("2026-03-15"))
	assert.Equal(t, []string{"10:00-12:00", "14:00-16:00"}, snap.HoursFor("2026-03-16"))
}
