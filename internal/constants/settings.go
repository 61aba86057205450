package constants

const (
	// Scheduling Settings
	SettingWeekdayMinutes = "weekday_minutes"
	SettingOffDays        = "off_days"
	SettingBufferRatio    = "buffer_ratio"

	// General Settings
	SettingTimezone         = "timezone"
	SettingPlanTier         = "plan_tier"
	SettingRemindersEnabled = "reminders_enabled"
	SettingReminderHour     = "reminder_hour"

	// Default Settings Values
	DefaultBufferRatio      = 0.2
	DefaultRemindersEnabled = true
	DefaultReminderHour     = 8
	DefaultTimezone         = "Local" // Use system local timezone by default
)

// DefaultWeekdayMinutes returns the default configured minutes per weekday
// (0=Sunday..6=Saturday). Sunday defaults to an off day with no capacity.
func DefaultWeekdayMinutes() map[int]int {
	return map[int]int{0: 0, 1: 150, 2: 150, 3: 150, 4: 150, 5: 180, 6: 180}
}

// DefaultOffDays returns the default off-day weekdays.
func DefaultOffDays() []int {
	return []int{0}
}
