package storage

// DateKey is the day-granular wire format for all schedule dates.
const DateKey = "2006-01-02"

type ScheduleSettings struct {
	LeadTimeDays          int            `json:"lead_time_days"`
	DefaultWorkMinutes    int            `json:"default_work_minutes"`
	DefaultAvailableHours []string       `json:"default_available_hours"`
	DateOverrides         []DateOverride `json:"date_overrides"`
}

// DateOverride deviates one calendar day from the defaults.
// At most one override exists per date.
type DateOverride struct {
	Date           string   `json:"date"`
	IsBlocked      bool     `json:"is_blocked"`
	WorkMinutes    *int     `json:"work_minutes,omitempty"`
	AvailableHours []string `json:"available_hours,omitempty"`
}

// OverrideFor returns the override for the given date key, if any.
func (s *ScheduleSettings) OverrideFor(date string) *DateOverride {
	for i := range s.DateOverrides {
		if s.DateOverrides[i].Date == date {
			return &s.DateOverrides[i]
		}
	}
	return nil
}
