package cli

import (
	"fmt"
	"strings"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
	"github.com/planriseapp/planrise/internal/notifier"
	"github.com/planriseapp/planrise/internal/utils"
)

// NotifySendCmd sends today's pending summary to the reminder agent. It
// exists for the agent's scheduled invocation, not for interactive use.
type NotifySendCmd struct {
	Message string `short:"m" help:"Send a custom message instead of the daily summary."`
}

func (c *NotifySendCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !settings.RemindersEnabled && c.Message == "" {
		return nil
	}

	text := c.Message
	if text == "" {
		text, err = buildDailySummary(ctx)
		if err != nil {
			return err
		}
		if text == "" {
			return nil
		}
	}

	if err := notifier.New().Notify(text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// buildDailySummary describes today's pending workload, empty when there is none.
func buildDailySummary(ctx *Context) (string, error) {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return "", err
	}
	today, err := utils.GetTodayFromSettings(settings)
	if err != nil {
		return "", err
	}

	calendar, err := ctx.Store.GetCalendar()
	if err != nil {
		return "", err
	}

	var titles []string
	minutes := 0
	for _, task := range calendar.Tasks[today] {
		if task.Status != constants.TaskStatusPending {
			continue
		}
		titles = append(titles, task.Title)
		minutes += task.Minutes
	}
	if len(titles) == 0 {
		return "", nil
	}

	return fmt.Sprintf("%d tasks today (%s): %s",
		len(titles), formatMinutes(minutes), strings.Join(titles, ", ")), nil
}

// NotifySubscribeCmd records a push subscription endpoint for an external
// relay to deliver reminders to. Registering an endpoint twice updates its keys.
type NotifySubscribeCmd struct {
	Endpoint string `arg:"" help:"Push endpoint URL."`
	P256dh   string `help:"Subscription p256dh key."`
	Auth     string `help:"Subscription auth secret."`
}

func (c *NotifySubscribeCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if !strings.HasPrefix(c.Endpoint, "https://") && !strings.HasPrefix(c.Endpoint, "http://") {
		return fmt.Errorf("endpoint must be an http(s) URL: %s", c.Endpoint)
	}

	sub := models.Subscription{Endpoint: c.Endpoint}
	sub.Keys.P256dh = c.P256dh
	sub.Keys.Auth = c.Auth

	if err := ctx.Store.AddSubscription(sub); err != nil {
		return err
	}

	fmt.Printf("Registered push endpoint: %s\n", c.Endpoint)
	return nil
}

type NotifySubscriptionsCmd struct{}

func (c *NotifySubscriptionsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	subs, err := ctx.Store.GetSubscriptions()
	if err != nil {
		return err
	}

	if len(subs) == 0 {
		fmt.Println("No push endpoints registered")
		return nil
	}

	fmt.Println("Push endpoints:")
	for _, sub := range subs {
		keys := "no keys"
		if sub.Keys.P256dh != "" && sub.Keys.Auth != "" {
			keys = "keys set"
		}
		fmt.Printf("  %s (%s)\n", sub.Endpoint, keys)
	}
	return nil
}

type NotifyUnsubscribeCmd struct {
	Endpoint string `arg:"" help:"Push endpoint URL to remove."`
}

func (c *NotifyUnsubscribeCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if err := ctx.Store.DeleteSubscription(c.Endpoint); err != nil {
		return err
	}

	fmt.Printf("Removed push endpoint: %s\n", c.Endpoint)
	return nil
}
