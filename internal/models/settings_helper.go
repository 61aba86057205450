package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/planriseapp/planrise/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingWeekdayMinutes:
			minutes, err := ParseWeekdayMinutes(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing weekday_minutes: %w", err)
			}
			settings.WeekdayMinutes = minutes
		case constants.SettingOffDays:
			days, err := ParseOffDays(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing off_days: %w", err)
			}
			settings.OffDays = days
		case constants.SettingBufferRatio:
			if _, err := fmt.Sscanf(value, "%f", &settings.BufferRatio); err != nil {
				return Settings{}, fmt.Errorf("parsing buffer_ratio: %w", err)
			}
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingPlanTier:
			settings.PlanTier = value
		case constants.SettingRemindersEnabled:
			settings.RemindersEnabled = value == "true"
		case constants.SettingReminderHour:
			if _, err := fmt.Sscanf(value, "%d", &settings.ReminderHour); err != nil {
				return Settings{}, fmt.Errorf("parsing reminder_hour: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingWeekdayMinutes:   FormatWeekdayMinutes(settings.WeekdayMinutes),
		constants.SettingOffDays:          FormatOffDays(settings.OffDays),
		constants.SettingBufferRatio:      strconv.FormatFloat(settings.BufferRatio, 'f', -1, 64),
		constants.SettingTimezone:         settings.Timezone,
		constants.SettingPlanTier:         settings.PlanTier,
		constants.SettingRemindersEnabled: fmt.Sprintf("%v", settings.RemindersEnabled),
		constants.SettingReminderHour:     fmt.Sprintf("%d", settings.ReminderHour),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.WeekdayMinutes == nil {
		settings.WeekdayMinutes = constants.DefaultWeekdayMinutes()
	}
	if settings.OffDays == nil {
		settings.OffDays = constants.DefaultOffDays()
	}
	if settings.BufferRatio == 0 {
		settings.BufferRatio = constants.DefaultBufferRatio
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.PlanTier == "" {
		settings.PlanTier = string(constants.TierFree)
	}
	if settings.ReminderHour == 0 {
		settings.ReminderHour = constants.DefaultReminderHour
	}
}

// ParseWeekdayMinutes parses a "weekday=minutes" comma list, e.g. "1=150,2=150,6=180".
func ParseWeekdayMinutes(value string) (map[int]int, error) {
	minutes := make(map[int]int)
	if strings.TrimSpace(value) == "" {
		return minutes, nil
	}
	for _, pair := range strings.Split(value, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid weekday entry %q (expected weekday=minutes)", pair)
		}
		day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || day < 0 || day > 6 {
			return nil, fmt.Errorf("invalid weekday %q (expected 0-6)", parts[0])
		}
		mins, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || mins < 0 {
			return nil, fmt.Errorf("invalid minutes %q for weekday %d", parts[1], day)
		}
		minutes[day] = mins
	}
	return minutes, nil
}

// FormatWeekdayMinutes renders a weekday minutes map as a stable "weekday=minutes" comma list.
func FormatWeekdayMinutes(minutes map[int]int) string {
	days := make([]int, 0, len(minutes))
	for day := range minutes {
		days = append(days, day)
	}
	sort.Ints(days)

	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, fmt.Sprintf("%d=%d", day, minutes[day]))
	}
	return strings.Join(parts, ",")
}

// ParseOffDays parses a comma-separated list of weekday numbers.
func ParseOffDays(value string) ([]int, error) {
	if strings.TrimSpace(value) == "" {
		return []int{}, nil
	}
	var days []int
	for _, part := range strings.Split(value, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || day < 0 || day > 6 {
			return nil, fmt.Errorf("invalid off day %q (expected 0-6)", part)
		}
		days = append(days, day)
	}
	sort.Ints(days)
	return days, nil
}

// FormatOffDays renders off days as a comma-separated list.
func FormatOffDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, strconv.Itoa(day))
	}
	return strings.Join(parts, ",")
}
