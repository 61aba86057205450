package cli

import (
	"fmt"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
	"github.com/planriseapp/planrise/internal/planner"
	"github.com/planriseapp/planrise/internal/utils"
)

type RebalanceCmd struct {
	DryRun bool `help:"Show what would move without saving."`
}

func (c *RebalanceCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	quota, err := loadQuotaForMonth(ctx, settings)
	if err != nil {
		return err
	}
	limits := models.LimitsForTier(settings.PlanTier)
	if !c.DryRun && !models.WithinLimit(limits.Rebalance, quota.RebalanceUsed) {
		return fmt.Errorf("rebalance quota reached for %s (%d used on the %s tier)",
			quota.Month, quota.RebalanceUsed, settings.PlanTier)
	}

	calendar, err := ctx.Store.GetCalendar()
	if err != nil {
		return err
	}

	today, err := utils.GetTodayFromSettings(settings)
	if err != nil {
		return err
	}

	pendingBefore := calendar.CountByStatus(constants.TaskStatusPending)

	next, err := planner.Rebalance(settings, calendar, today)
	if err != nil {
		return err
	}

	moved := countMovedTasks(calendar, next)

	if c.DryRun {
		fmt.Printf("Dry run: %d of %d unfinished tasks would move.\n", moved, pendingBefore)
		return nil
	}

	performAutomaticBackup(ctx)

	if err := ctx.Store.ReplaceCalendar(next); err != nil {
		return err
	}

	quota.RebalanceUsed++
	if err := ctx.Store.SaveQuota(quota); err != nil {
		return err
	}

	fmt.Printf("Rebalanced: %d of %d unfinished tasks moved to new dates.\n", moved, pendingBefore)
	return nil
}

// countMovedTasks compares task dates before and after a rebalance.
func countMovedTasks(before, after models.Calendar) int {
	oldDate := make(map[string]string)
	for date, tasks := range before.Tasks {
		for _, task := range tasks {
			oldDate[task.ID] = date
		}
	}

	moved := 0
	for date, tasks := range after.Tasks {
		for _, task := range tasks {
			if prev, ok := oldDate[task.ID]; ok && prev != date {
				moved++
			}
		}
	}
	return moved
}
