package cli

import (
	"fmt"
	"strings"

	"github.com/planriseapp/planrise/internal/aiplan"
	"github.com/planriseapp/planrise/internal/backup"
	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/logger"
	"github.com/planriseapp/planrise/internal/models"
	"github.com/planriseapp/planrise/internal/storage"
	"github.com/planriseapp/planrise/internal/utils"
)

type Context struct {
	Store     storage.Provider
	Generator aiplan.Generator
}

// performAutomaticBackup snapshots the store before a destructive operation.
// Failure is logged, not fatal: the operation itself still proceeds.
func performAutomaticBackup(ctx *Context) {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("automatic backup failed", "error", err)
	}
}

// loadQuotaForMonth returns the quota row for the current month, resetting
// counters when the stored row belongs to an earlier month.
func loadQuotaForMonth(ctx *Context, settings models.Settings) (models.Quota, error) {
	month, err := utils.CurrentMonth(settings.Timezone)
	if err != nil {
		return models.Quota{}, err
	}

	quota, err := ctx.Store.GetQuota()
	if err != nil {
		return models.Quota{}, err
	}

	if quota.Month != month {
		quota = models.Quota{Month: month}
	}
	return quota, nil
}

func formatMinutes(minutes int) string {
	if minutes >= 60 {
		h := minutes / 60
		m := minutes % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", minutes)
}

func statusBadge(status constants.TaskStatus) string {
	switch status {
	case constants.TaskStatusDone:
		return "[done]"
	case constants.TaskStatusMissed:
		return "[missed]"
	default:
		return "[pending]"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// findTaskByID resolves a full or prefix task ID to exactly one task.
func findTaskByID(ctx *Context, id string) (string, models.Task, error) {
	if date, task, err := ctx.Store.GetTask(id); err == nil {
		return date, task, nil
	}

	calendar, err := ctx.Store.GetCalendar()
	if err != nil {
		return "", models.Task{}, err
	}

	var foundDate string
	var found []models.Task
	for date, tasks := range calendar.Tasks {
		for _, task := range tasks {
			if strings.HasPrefix(task.ID, id) {
				foundDate = date
				found = append(found, task)
			}
		}
	}

	switch len(found) {
	case 0:
		return "", models.Task{}, fmt.Errorf("task not found: %s", id)
	case 1:
		return foundDate, found[0], nil
	default:
		return "", models.Task{}, fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", id, len(found))
	}
}
