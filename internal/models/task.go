package models

import (
	"sort"

	"github.com/planriseapp/planrise/internal/constants"
)

// Task is a calendar-resident unit of work, created when a plan is committed
// or entered manually, and mutated in place by status/edit operations.
type Task struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Minutes  int                  `json:"minutes"`
	Pages    string               `json:"pages,omitempty"` // page range text, e.g. "12-34"
	TaskType constants.TaskType   `json:"task_type,omitempty"`
	Status   constants.TaskStatus `json:"status"`
	Source   constants.TaskSource `json:"source"`
}

// Calendar maps dates (YYYY-MM-DD) to that day's tasks in display order.
type Calendar struct {
	Tasks map[string][]Task `json:"tasks"`
}

// NewCalendar returns an empty calendar.
func NewCalendar() Calendar {
	return Calendar{Tasks: make(map[string][]Task)}
}

// Clone returns a deep copy of the calendar.
func (c Calendar) Clone() Calendar {
	next := NewCalendar()
	for date, tasks := range c.Tasks {
		next.Tasks[date] = append([]Task(nil), tasks...)
	}
	return next
}

// SortedDates returns the calendar's dates in ascending order.
func (c Calendar) SortedDates() []string {
	dates := make([]string, 0, len(c.Tasks))
	for date := range c.Tasks {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// CountByStatus returns how many tasks carry the given status.
func (c Calendar) CountByStatus(status constants.TaskStatus) int {
	count := 0
	for _, tasks := range c.Tasks {
		for _, task := range tasks {
			if task.Status == status {
				count++
			}
		}
	}
	return count
}
