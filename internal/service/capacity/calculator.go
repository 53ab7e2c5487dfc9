package capacity

import (
	"time"

	"bakery-backend/internal/storage"
)

// HorizonDays is the rolling booking horizon, roughly three months.
const HorizonDays = 92

// Snapshot is the point-in-time availability view over the horizon.
// Recomputed per request, never persisted.
type Snapshot struct {
	LeadTimeDays           int                    `json:"lead_time_days"`
	ManufacturingTimes     map[int64]int          `json:"manufacturing_times"`
	AvailableMinutesPerDay map[string]int         `json:"available_minutes_per_day"`
	AdminBlockedDates      []string               `json:"admin_blocked_dates"`
	DefaultWorkMinutes     int                    `json:"default_work_minutes"`
	DefaultAvailableHours  []string               `json:"default_available_hours"`
	DateOverrides          []storage.DateOverride `json:"date_overrides"`

	// Horizon holds the ordered day keys the snapshot covers; the first
	// entry is the day the snapshot was computed for.
	Horizon []string `json:"horizon"`
}

// Compute builds the availability snapshot for `days` days starting at
// `from`. Lead time is reported as metadata, not zeroed into availability:
// enforcing "no booking before today+leadTimeDays" is the caller's job so
// admin views can still see past-lead-time capacity.
func Compute(settings *storage.ScheduleSettings, costs *CostTable, booked map[string]int, from time.Time, days int) *Snapshot {
	snap := &Snapshot{
		LeadTimeDays:           settings.LeadTimeDays,
		ManufacturingTimes:     costs.Minutes(),
		AvailableMinutesPerDay: make(map[string]int, days),
		AdminBlockedDates:      []string{},
		DefaultWorkMinutes:     settings.DefaultWorkMinutes,
		DefaultAvailableHours:  settings.DefaultAvailableHours,
		DateOverrides:          settings.DateOverrides,
		Horizon:                make([]string, 0, days),
	}

	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i).Format(storage.DateKey)
		snap.Horizon = append(snap.Horizon, day)

		override := settings.OverrideFor(day)
		if override != nil && override.IsBlocked {
			snap.AvailableMinutesPerDay[day] = 0
			snap.AdminBlockedDates = append(snap.AdminBlockedDates, day)
			continue
		}

		budget := settings.DefaultWorkMinutes
		if override != nil && override.WorkMinutes != nil {
			budget = *override.WorkMinutes
		}

		available := budget - booked[day]
		if available < 0 {
			available = 0
		}
		snap.AvailableMinutesPerDay[day] = available
	}

	return snap
}

// IsBlocked reports whether a day was blocked by an admin override.
func (s *Snapshot) IsBlocked(date string) bool {
	for _, d := range s.AdminBlockedDates {
		if d == date {
			return true
		}
	}
	return false
}

// LeadCutoff returns the earliest bookable day key, or "" when the lead
// time exceeds the horizon.
func (s *Snapshot) LeadCutoff() string {
	if s.LeadTimeDays >= len(s.Horizon) {
		return ""
	}
	return s.Horizon[s.LeadTimeDays]
}

// HoursFor returns the time-slot menu for a day: the override's hours when
// present, otherwise the default menu.
func (s *Snapshot) HoursFor(date string) []string {
	for i := range s.DateOverrides {
		if s.DateOverrides[i].Date == date && s.DateOverrides[i].AvailableHours != nil {
			return s.DateOverrides[i].AvailableHours
		}
	}
	return s.DefaultAvailableHours
}
