package cli

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
	"github.com/planriseapp/planrise/internal/planner"
	"github.com/planriseapp/planrise/internal/utils"
)

type TaskAddCmd struct {
	Title   string `arg:"" help:"Task title."`
	Minutes int    `short:"m" help:"Estimated minutes." required:""`
	Date    string `short:"d" help:"Date (YYYY-MM-DD, default today)."`
	Pages   string `short:"p" help:"Page range, e.g. 12-34."`
	Type    string `short:"t" help:"Task type (generic|exam_prep)." default:"generic"`
}

func (c *TaskAddCmd) Validate() error {
	if c.Minutes <= 0 {
		return fmt.Errorf("minutes must be positive")
	}
	if c.Type != string(constants.TaskTypeGeneric) && c.Type != string(constants.TaskTypeExamPrep) {
		return fmt.Errorf("invalid task type: %s", c.Type)
	}
	if c.Pages != "" {
		if _, ok := planner.ParsePageRange(c.Pages); !ok {
			return fmt.Errorf("invalid page range: %q (use N or N-M)", c.Pages)
		}
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date := c.Date
	if date == "" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return err
		}
		date, err = utils.GetTodayFromSettings(settings)
		if err != nil {
			return err
		}
	}
	if !utils.ValidateDateFormat(date) {
		return fmt.Errorf("invalid date format: %q (use YYYY-MM-DD)", date)
	}

	task := models.Task{
		ID:       uuid.New().String(),
		Title:    c.Title,
		Minutes:  c.Minutes,
		Pages:    c.Pages,
		TaskType: constants.TaskType(c.Type),
		Status:   constants.TaskStatusPending,
		Source:   constants.TaskSourceManual,
	}

	if err := ctx.Store.AddTask(date, task); err != nil {
		return err
	}

	fmt.Printf("Added task: %s on %s (ID: %s)\n", c.Title, date, shortID(task.ID))
	return nil
}

type TaskListCmd struct {
	Date    string `short:"d" help:"Only show tasks for this date (YYYY-MM-DD or 'today')."`
	Pending bool   `help:"Show only pending tasks."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	calendar, err := ctx.Store.GetCalendar()
	if err != nil {
		return err
	}

	filter := c.Date
	if filter == "today" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return err
		}
		filter, err = utils.GetTodayFromSettings(settings)
		if err != nil {
			return err
		}
	}

	shown := 0
	for _, date := range calendar.SortedDates() {
		if filter != "" && date != filter {
			continue
		}
		tasks := calendar.Tasks[date]
		printed := false
		for _, task := range tasks {
			if c.Pending && task.Status != constants.TaskStatusPending {
				continue
			}
			if !printed {
				fmt.Printf("%s:\n", date)
				printed = true
			}
			line := fmt.Sprintf("  %s %s - %s", statusBadge(task.Status), task.Title, formatMinutes(task.Minutes))
			if task.Pages != "" {
				line += fmt.Sprintf(" (p.%s)", task.Pages)
			}
			fmt.Printf("%s  [%s]\n", line, shortID(task.ID))
			shown++
		}
	}

	if shown == 0 {
		fmt.Println("No tasks found")
	}
	return nil
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID (or unique prefix)."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	return setStatus(ctx, c.ID, constants.TaskStatusDone)
}

type TaskMissCmd struct {
	ID string `arg:"" help:"Task ID (or unique prefix)."`
}

func (c *TaskMissCmd) Run(ctx *Context) error {
	return setStatus(ctx, c.ID, constants.TaskStatusMissed)
}

func setStatus(ctx *Context, id string, status constants.TaskStatus) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	_, task, err := findTaskByID(ctx, id)
	if err != nil {
		return err
	}

	if err := ctx.Store.SetTaskStatus(task.ID, status); err != nil {
		return err
	}

	fmt.Printf("Marked %s: %s\n", status, task.Title)
	return nil
}

type TaskEditCmd struct {
	ID      string  `arg:"" help:"Task ID (or unique prefix)."`
	Title   *string `help:"New title."`
	Minutes *int    `help:"New estimated minutes."`
	Pages   *string `help:"New page range."`
	Date    *string `help:"Move the task to this date (YYYY-MM-DD)."`
}

func (c *TaskEditCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, task, err := findTaskByID(ctx, c.ID)
	if err != nil {
		return err
	}

	changed := false
	if c.Title != nil {
		task.Title = *c.Title
		changed = true
	}
	if c.Minutes != nil {
		if *c.Minutes <= 0 {
			return fmt.Errorf("minutes must be positive")
		}
		task.Minutes = *c.Minutes
		changed = true
	}
	if c.Pages != nil {
		if *c.Pages != "" {
			if _, ok := planner.ParsePageRange(*c.Pages); !ok {
				return fmt.Errorf("invalid page range: %q (use N or N-M)", *c.Pages)
			}
		}
		task.Pages = *c.Pages
		changed = true
	}
	if c.Date != nil {
		if !utils.ValidateDateFormat(*c.Date) {
			return fmt.Errorf("invalid date format: %q (use YYYY-MM-DD)", *c.Date)
		}
		date = *c.Date
		changed = true
	}

	if !changed {
		fmt.Println("Nothing to change")
		return nil
	}

	if err := ctx.Store.UpdateTask(task.ID, date, task); err != nil {
		return err
	}

	fmt.Printf("Updated task: %s\n", task.Title)
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID (or unique prefix)."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	_, task, err := findTaskByID(ctx, c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeleteTask(task.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted task: %s\n", task.Title)
	return nil
}
