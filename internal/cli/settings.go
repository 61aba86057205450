package cli

import (
	"fmt"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
	"github.com/planriseapp/planrise/internal/utils"
)

type SettingsListCmd struct{}

func (c *SettingsListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	fmt.Println("Settings:")
	fmt.Printf("  weekday_minutes:   %s\n", models.FormatWeekdayMinutes(settings.WeekdayMinutes))
	fmt.Printf("  off_days:          %s\n", models.FormatOffDays(settings.OffDays))
	fmt.Printf("  buffer_ratio:      %.2f\n", settings.BufferRatio)
	fmt.Printf("  timezone:          %s\n", settings.Timezone)
	fmt.Printf("  plan_tier:         %s\n", settings.PlanTier)
	fmt.Printf("  reminders_enabled: %t\n", settings.RemindersEnabled)
	fmt.Printf("  reminder_hour:     %d\n", settings.ReminderHour)
	return nil
}

type SettingsUpdateCmd struct {
	WeekdayMinutes *string  `help:"Configured minutes per weekday, e.g. '1=150,2=150,6=180' (0=Sunday)."`
	OffDays        *string  `help:"Comma-separated off-day weekdays, e.g. '0,6'."`
	BufferRatio    *float64 `help:"Safety margin fraction withheld from each day."`
	Timezone       *string  `help:"IANA timezone name, or 'Local'."`
	PlanTier       *string  `help:"Subscription tier (free|pro_monthly|pro_yearly)."`
	Reminders      *bool    `help:"Enable or disable daily reminders."`
	ReminderHour   *int     `help:"Local hour for the daily reminder (0-23)."`
}

func (c *SettingsUpdateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	changed := false

	if c.WeekdayMinutes != nil {
		minutes, err := models.ParseWeekdayMinutes(*c.WeekdayMinutes)
		if err != nil {
			return err
		}
		settings.WeekdayMinutes = minutes
		changed = true
	}
	if c.OffDays != nil {
		days, err := models.ParseOffDays(*c.OffDays)
		if err != nil {
			return err
		}
		settings.OffDays = days
		changed = true
	}
	if c.BufferRatio != nil {
		if *c.BufferRatio < 0 || *c.BufferRatio >= 1 {
			return fmt.Errorf("buffer ratio must be in [0, 1)")
		}
		settings.BufferRatio = *c.BufferRatio
		changed = true
	}
	if c.Timezone != nil {
		if _, err := utils.LoadLocation(*c.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q: %w", *c.Timezone, err)
		}
		settings.Timezone = *c.Timezone
		changed = true
	}
	if c.PlanTier != nil {
		switch constants.PlanTier(*c.PlanTier) {
		case constants.TierFree, constants.TierProMonthly, constants.TierProYearly:
			settings.PlanTier = *c.PlanTier
			changed = true
		default:
			return fmt.Errorf("invalid plan tier: %s", *c.PlanTier)
		}
	}
	if c.Reminders != nil {
		settings.RemindersEnabled = *c.Reminders
		changed = true
	}
	if c.ReminderHour != nil {
		if *c.ReminderHour < 0 || *c.ReminderHour > 23 {
			return fmt.Errorf("reminder hour must be between 0 and 23")
		}
		settings.ReminderHour = *c.ReminderHour
		changed = true
	}

	if !changed {
		fmt.Println("Nothing to change")
		return nil
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}

	fmt.Println("Settings updated.")
	return nil
}
