package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/utils"
)

var (
	dateHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	todayHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Background(lipgloss.Color("236")).
				Padding(0, 1).
				Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	missedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	ddayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)
)

type CalendarCmd struct {
	From string `help:"First date to show (YYYY-MM-DD, default today)."`
	To   string `help:"Last date to show (YYYY-MM-DD)."`
	All  bool   `help:"Show every date on the calendar."`
}

func (c *CalendarCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	today, err := utils.GetTodayFromSettings(settings)
	if err != nil {
		return err
	}

	from := c.From
	if from == "" {
		from = today
	}
	if !utils.ValidateDateFormat(from) {
		return fmt.Errorf("invalid date format: %q (use YYYY-MM-DD)", from)
	}
	if c.To != "" && !utils.ValidateDateFormat(c.To) {
		return fmt.Errorf("invalid date format: %q (use YYYY-MM-DD)", c.To)
	}

	if banner := primaryDdayBanner(ctx, today); banner != "" {
		fmt.Println(banner)
		fmt.Println()
	}

	calendar, err := ctx.Store.GetCalendar()
	if err != nil {
		return err
	}

	shown := 0
	for _, date := range calendar.SortedDates() {
		if !c.All {
			if date < from {
				continue
			}
			if c.To != "" && date > c.To {
				continue
			}
		}

		header := date
		if date == today {
			header = todayHeaderStyle.Render(date + " (today)")
		} else {
			header = dateHeaderStyle.Render(header)
		}
		fmt.Println(header)

		for _, task := range calendar.Tasks[date] {
			line := fmt.Sprintf("  %s %s", statusBadge(task.Status), task.Title)
			if task.Pages != "" {
				line += fmt.Sprintf(" p.%s", task.Pages)
			}
			line += fmt.Sprintf(" (%s)", formatMinutes(task.Minutes))

			switch task.Status {
			case constants.TaskStatusDone:
				line = doneStyle.Render(line)
			case constants.TaskStatusMissed:
				line = missedStyle.Render(line)
			}
			fmt.Println(line)
			shown++
		}
	}

	if shown == 0 {
		fmt.Println("Calendar is empty")
	}
	return nil
}

// primaryDdayBanner renders the primary countdown, if one is set and upcoming.
func primaryDdayBanner(ctx *Context, today string) string {
	state, err := ctx.Store.GetDdayState()
	if err != nil || state.PrimaryID == "" {
		return ""
	}

	for _, item := range state.Items {
		if item.ID != state.PrimaryID {
			continue
		}
		days, err := utils.DaysUntil(today, item.Date)
		if err != nil {
			return ""
		}
		return ddayStyle.Render(fmt.Sprintf("%s %s (%s)", ddayLabel(days), item.Title, item.Date))
	}
	return ""
}

func ddayLabel(days int) string {
	switch {
	case days > 0:
		return fmt.Sprintf("D-%d", days)
	case days == 0:
		return "D-day"
	default:
		return fmt.Sprintf("D+%d", -days)
	}
}

type CalendarClearCmd struct {
	Yes bool `short:"y" help:"Clear without confirmation."`
}

func (c *CalendarClearCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if !c.Yes {
		return fmt.Errorf("refusing to clear the calendar without --yes")
	}

	performAutomaticBackup(ctx)

	if err := ctx.Store.ClearCalendar(); err != nil {
		return err
	}

	fmt.Println("Calendar cleared.")
	return nil
}
