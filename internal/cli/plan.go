package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/planriseapp/planrise/internal/aiplan"
	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
	"github.com/planriseapp/planrise/internal/planner"
	"github.com/planriseapp/planrise/internal/utils"
)

type PlanNewCmd struct {
	Book           string `arg:"" help:"Book or material name."`
	Pages          int    `short:"p" help:"Total pages to cover." required:""`
	MinutesPerPage int    `short:"m" help:"Estimated minutes per page." required:""`
	Due            string `short:"d" help:"Due date (YYYY-MM-DD)." required:""`
	Start          string `short:"s" help:"Start date (YYYY-MM-DD, default today)."`
	StartPage      int    `help:"First page to read." default:"1"`
	Subject        string `help:"Subject label."`
	Type           string `short:"t" help:"Plan type (generic|exam_prep)." default:"generic"`
	Notes          string `help:"Free-form notes."`
	AI             bool   `help:"Draft the schedule with the AI planner when configured."`
	Yes            bool   `short:"y" help:"Commit without confirmation."`
	DryRun         bool   `help:"Check feasibility and preview without saving."`
}

func (c *PlanNewCmd) Validate() error {
	if c.Type != string(constants.TaskTypeGeneric) && c.Type != string(constants.TaskTypeExamPrep) {
		return fmt.Errorf("invalid plan type: %s", c.Type)
	}
	return nil
}

func (c *PlanNewCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	start := c.Start
	if start == "" {
		start, err = utils.GetTodayFromSettings(settings)
		if err != nil {
			return err
		}
	}

	request := models.PlanRequest{
		BookName:       c.Book,
		Subject:        c.Subject,
		TaskType:       constants.TaskType(c.Type),
		TotalPages:     c.Pages,
		MinutesPerPage: c.MinutesPerPage,
		StartPage:      c.StartPage,
		StartDate:      start,
		DueDate:        c.Due,
		Notes:          c.Notes,
	}

	result := planner.Evaluate(request, settings)
	if !result.Feasible {
		printFeasibility(result)
		return fmt.Errorf("plan is not feasible: %s", result.Reason)
	}

	fmt.Printf("Feasible: %s needed, %s available across %d days\n\n",
		formatMinutes(result.RequiredMinutes), formatMinutes(result.AvailableMinutes), result.AvailableDays)

	entries, source, err := c.buildSchedule(ctx, request, settings)
	if err != nil {
		return err
	}

	printSchedulePreview(request, entries, source)

	if c.DryRun {
		fmt.Println("\nDry run: nothing saved.")
		return nil
	}

	if !c.Yes {
		var accept bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Commit this plan to your calendar?").
					Value(&accept),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
		if !accept {
			fmt.Println("Plan discarded.")
			return nil
		}
	}

	return c.commit(ctx, request, entries, source)
}

// buildSchedule picks the schedule source: the AI planner when requested,
// configured, and within quota, otherwise the deterministic allocator.
func (c *PlanNewCmd) buildSchedule(ctx *Context, request models.PlanRequest, settings models.Settings) ([]models.ScheduleEntry, string, error) {
	gen := ctx.Generator
	if c.AI {
		quota, err := loadQuotaForMonth(ctx, settings)
		if err != nil {
			return nil, "", err
		}
		limits := models.LimitsForTier(settings.PlanTier)
		if !models.WithinLimit(limits.AIPlan, quota.AIPlanUsed) {
			fmt.Printf("AI plan quota reached for %s (%d used). Using the built-in allocator.\n", quota.Month, quota.AIPlanUsed)
			gen = nil
		}
	} else {
		gen = nil
	}

	entries, source, err := aiplan.BuildSchedule(context.Background(), gen, request, settings)
	if err != nil {
		return nil, "", err
	}

	if source == aiplan.SourceOpenAI {
		quota, qerr := loadQuotaForMonth(ctx, settings)
		if qerr != nil {
			return nil, "", qerr
		}
		quota.AIPlanUsed++
		if qerr := ctx.Store.SaveQuota(quota); qerr != nil {
			return nil, "", qerr
		}
	}

	return entries, source, nil
}

func (c *PlanNewCmd) commit(ctx *Context, request models.PlanRequest, entries []models.ScheduleEntry, source string) error {
	performAutomaticBackup(ctx)

	plan := models.Plan{
		ID:        uuid.New().String(),
		Name:      request.BookName,
		Subject:   request.Subject,
		TaskType:  request.TaskType,
		DueDate:   request.DueDate,
		Notes:     request.Notes,
		Schedule:  entries,
		Source:    source,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	if err := ctx.Store.AddPlan(plan); err != nil {
		return err
	}

	for _, entry := range entries {
		task := models.Task{
			ID:       uuid.New().String(),
			Title:    request.BookName,
			Minutes:  entry.Minutes,
			Pages:    formatPageSpan(entry.PageFrom, entry.PageTo),
			TaskType: request.TaskType,
			Status:   constants.TaskStatusPending,
			Source:   constants.TaskSourcePlan,
		}
		if err := ctx.Store.AddTask(entry.Date, task); err != nil {
			return err
		}
	}

	fmt.Printf("\nPlan committed: %s (%d days, ID: %s)\n", plan.Name, len(entries), shortID(plan.ID))
	return nil
}

func formatPageSpan(from, to int) string {
	if from == to {
		return fmt.Sprintf("%d", from)
	}
	return fmt.Sprintf("%d-%d", from, to)
}

func printFeasibility(result models.FeasibilityResult) {
	switch result.Reason {
	case models.ReasonInvalidDate:
		fmt.Println("✗ Invalid date: use YYYY-MM-DD for start and due dates.")
	case models.ReasonInvalidRange:
		fmt.Println("✗ Invalid range: the due date falls before the start date.")
	case models.ReasonInvalidPages:
		fmt.Println("✗ Invalid workload: pages and minutes per page must be positive.")
	case models.ReasonNoCapacity:
		fmt.Println("✗ No capacity: every day in the window is an off day or has zero minutes.")
	case models.ReasonCapacityShortage:
		fmt.Printf("✗ Capacity shortage: need %s but only %s available across %d days (short %s).\n",
			formatMinutes(result.RequiredMinutes), formatMinutes(result.AvailableMinutes),
			result.AvailableDays, formatMinutes(result.ShortageMinutes))
	}
}

func printSchedulePreview(request models.PlanRequest, entries []models.ScheduleEntry, source string) {
	label := "allocator"
	if source == aiplan.SourceOpenAI {
		label = "AI planner"
	}
	fmt.Printf("Proposed schedule for %q (%s):\n\n", request.BookName, label)
	for _, entry := range entries {
		fmt.Printf("  %s  p.%-9s  %s\n", entry.Date, formatPageSpan(entry.PageFrom, entry.PageTo), formatMinutes(entry.Minutes))
	}
}

type PlanListCmd struct{}

func (c *PlanListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	plans, err := ctx.Store.GetAllPlans()
	if err != nil {
		return err
	}

	if len(plans) == 0 {
		fmt.Println("No plans found")
		return nil
	}

	fmt.Println("Plans:")
	for _, plan := range plans {
		pages := 0
		for _, entry := range plan.Schedule {
			pages += entry.Pages
		}
		fmt.Printf("  [%s] %s - %d pages over %d days, due %s (%s)\n",
			shortID(plan.ID), plan.Name, pages, len(plan.Schedule), plan.DueDate, plan.Source)
		if plan.Subject != "" {
			fmt.Printf("      Subject: %s\n", plan.Subject)
		}
	}
	return nil
}

type PlanDeleteCmd struct {
	ID        string `arg:"" help:"Plan ID (or unique prefix)."`
	KeepTasks bool   `help:"Keep the plan's pending calendar tasks."`
}

func (c *PlanDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	plans, err := ctx.Store.GetAllPlans()
	if err != nil {
		return err
	}

	var target *models.Plan
	for i := range plans {
		if plans[i].ID == c.ID || strings.HasPrefix(plans[i].ID, c.ID) {
			if target != nil {
				return fmt.Errorf("plan ID prefix %q is ambiguous", c.ID)
			}
			target = &plans[i]
		}
	}
	if target == nil {
		return fmt.Errorf("plan not found: %s", c.ID)
	}

	performAutomaticBackup(ctx)

	if err := ctx.Store.DeletePlan(target.ID); err != nil {
		return err
	}

	removed := 0
	if !c.KeepTasks {
		removed, err = removePendingPlanTasks(ctx, *target)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Deleted plan: %s", target.Name)
	if removed > 0 {
		fmt.Printf(" (%d pending tasks removed)", removed)
	}
	fmt.Println()
	return nil
}

// removePendingPlanTasks drops the plan's unfinished calendar tasks. Done and
// missed tasks stay as history.
func removePendingPlanTasks(ctx *Context, plan models.Plan) (int, error) {
	calendar, err := ctx.Store.GetCalendar()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, tasks := range calendar.Tasks {
		for _, task := range tasks {
			if task.Source == constants.TaskSourcePlan &&
				task.Title == plan.Name &&
				task.TaskType == plan.TaskType &&
				task.Status == constants.TaskStatusPending {
				if err := ctx.Store.DeleteTask(task.ID); err != nil {
					return removed, err
				}
				removed++
			}
		}
	}
	return removed, nil
}
