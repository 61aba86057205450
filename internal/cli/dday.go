package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/planriseapp/planrise/internal/models"
	"github.com/planriseapp/planrise/internal/utils"
)

type DdayAddCmd struct {
	Title   string `arg:"" help:"Countdown title."`
	Date    string `arg:"" help:"Target date (YYYY-MM-DD)."`
	Color   string `help:"Display color hint."`
	Primary bool   `help:"Make this the primary countdown."`
}

func (c *DdayAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if !utils.ValidateDateFormat(c.Date) {
		return fmt.Errorf("invalid date format: %q (use YYYY-MM-DD)", c.Date)
	}

	state, err := ctx.Store.GetDdayState()
	if err != nil {
		return err
	}

	item := models.Dday{
		ID:    uuid.New().String(),
		Title: c.Title,
		Date:  c.Date,
		Color: c.Color,
	}
	state.Items = append(state.Items, item)
	if c.Primary || state.PrimaryID == "" {
		state.PrimaryID = item.ID
	}

	if err := ctx.Store.SaveDdayState(state); err != nil {
		return err
	}

	fmt.Printf("Added countdown: %s on %s (ID: %s)\n", c.Title, c.Date, shortID(item.ID))
	return nil
}

type DdayListCmd struct{}

func (c *DdayListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	state, err := ctx.Store.GetDdayState()
	if err != nil {
		return err
	}

	if len(state.Items) == 0 {
		fmt.Println("No countdowns found")
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	today, err := utils.GetTodayFromSettings(settings)
	if err != nil {
		return err
	}

	fmt.Println("Countdowns:")
	for _, item := range state.Items {
		marker := " "
		if item.ID == state.PrimaryID {
			marker = "*"
		}
		label := "?"
		if days, err := utils.DaysUntil(today, item.Date); err == nil {
			label = ddayLabel(days)
		}
		fmt.Printf("  %s %-6s %s (%s)  [%s]\n", marker, label, item.Title, item.Date, shortID(item.ID))
	}
	return nil
}

type DdaySetPrimaryCmd struct {
	ID string `arg:"" help:"Countdown ID (or unique prefix)."`
}

func (c *DdaySetPrimaryCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	state, err := ctx.Store.GetDdayState()
	if err != nil {
		return err
	}

	item, err := findDday(state, c.ID)
	if err != nil {
		return err
	}

	state.PrimaryID = item.ID
	if err := ctx.Store.SaveDdayState(state); err != nil {
		return err
	}

	fmt.Printf("Primary countdown set: %s\n", item.Title)
	return nil
}

type DdayDeleteCmd struct {
	ID string `arg:"" help:"Countdown ID (or unique prefix)."`
}

func (c *DdayDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	state, err := ctx.Store.GetDdayState()
	if err != nil {
		return err
	}

	item, err := findDday(state, c.ID)
	if err != nil {
		return err
	}

	kept := state.Items[:0]
	for _, it := range state.Items {
		if it.ID != item.ID {
			kept = append(kept, it)
		}
	}
	state.Items = kept
	if state.PrimaryID == item.ID {
		state.PrimaryID = ""
		if len(state.Items) > 0 {
			state.PrimaryID = state.Items[0].ID
		}
	}

	if err := ctx.Store.SaveDdayState(state); err != nil {
		return err
	}

	fmt.Printf("Deleted countdown: %s\n", item.Title)
	return nil
}

func findDday(state models.DdayState, id string) (models.Dday, error) {
	var found []models.Dday
	for _, item := range state.Items {
		if item.ID == id {
			return item, nil
		}
		if strings.HasPrefix(item.ID, id) {
			found = append(found, item)
		}
	}

	switch len(found) {
	case 0:
		return models.Dday{}, fmt.Errorf("countdown not found: %s", id)
	case 1:
		return found[0], nil
	default:
		return models.Dday{}, fmt.Errorf("countdown ID prefix %q is ambiguous", id)
	}
}
