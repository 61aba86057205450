package models

// Settings represents the per-user scheduling profile plus application-wide settings
type Settings struct {
	WeekdayMinutes   map[int]int `json:"weekday_minutes"`   // configured minutes per weekday, 0=Sunday..6=Saturday
	OffDays          []int       `json:"off_days"`          // weekdays with zero usable capacity regardless of configured minutes
	BufferRatio      float64     `json:"buffer_ratio"`      // fraction of configured capacity withheld as safety margin
	Timezone         string      `json:"timezone"`          // IANA timezone name, or "Local" for system timezone
	PlanTier         string      `json:"plan_tier"`         // subscription tier: free, pro_monthly, pro_yearly
	RemindersEnabled bool        `json:"reminders_enabled"` // whether daily reminders are enabled
	ReminderHour     int         `json:"reminder_hour"`     // local hour of day for the reminder summary
}

// IsOffDay reports whether the given weekday (0=Sunday..6=Saturday) is an off day.
func (s Settings) IsOffDay(weekday int) bool {
	for _, d := range s.OffDays {
		if d == weekday {
			return true
		}
	}
	return false
}
