package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
)

// ErrNoUsableCapacity means the repack walked the full day ceiling without
// draining the queue, which only happens when the profile has effectively no
// usable capacity on any weekday.
var ErrNoUsableCapacity = fmt.Errorf("rebalance failed: no usable capacity within %d days, check weekday minutes and off days", constants.RebalanceDayCeiling)

// Rebalance pulls every unfinished task (overdue, today's leftovers, future)
// into one ordered queue and repacks it starting tomorrow, respecting daily
// capacity. Done tasks keep their original dates. The input calendar is never
// mutated; the full replacement calendar is returned.
func Rebalance(settings models.Settings, calendar models.Calendar, today string) (models.Calendar, error) {
	todayDate, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return models.Calendar{}, fmt.Errorf("invalid reference date: %w", err)
	}

	queue := collectUnfinished(calendar, today)
	if len(queue) == 0 {
		return calendar.Clone(), nil
	}
	queue = sortQueueByPageOrder(queue)

	repacked, err := packByCapacity(settings, todayDate.AddDate(0, 0, 1), queue)
	if err != nil {
		return models.Calendar{}, err
	}

	result := models.NewCalendar()
	for date, tasks := range calendar.Tasks {
		var done []models.Task
		for _, task := range tasks {
			if task.Status == constants.TaskStatusDone {
				done = append(done, task)
			}
		}
		if len(done) > 0 {
			result.Tasks[date] = done
		}
	}

	for date, tasks := range repacked {
		merged := append(result.Tasks[date], tasks...)
		sortTasksByPageRange(merged)
		result.Tasks[date] = merged
	}

	return result, nil
}

// collectUnfinished gathers non-done tasks in backlog, today, future order,
// walking dates ascending within each bucket to preserve chronology.
func collectUnfinished(calendar models.Calendar, today string) []models.Task {
	var backlog, current, future []models.Task

	for _, date := range calendar.SortedDates() {
		for _, task := range calendar.Tasks[date] {
			if task.Status == constants.TaskStatusDone {
				continue
			}
			switch {
			case date < today:
				backlog = append(backlog, task)
			case date == today:
				current = append(current, task)
			default:
				future = append(future, task)
			}
		}
	}

	queue := make([]models.Task, 0, len(backlog)+len(current)+len(future))
	queue = append(queue, backlog...)
	queue = append(queue, current...)
	return append(queue, future...)
}

func planGroupKey(task models.Task) string {
	return task.Title + "::" + string(task.TaskType)
}

// sortQueueByPageOrder keeps the queue's relative order between plan groups
// and orders tasks within a group by parsed page range, so a plan's pages are
// never reordered out of sequence by the repack. Tasks whose page text does
// not parse sort after all parseable ones, original order preserved.
func sortQueueByPageOrder(queue []models.Task) []models.Task {
	type indexed struct {
		task  models.Task
		index int
	}
	wrapped := make([]indexed, len(queue))
	for i, task := range queue {
		wrapped[i] = indexed{task: task, index: i}
	}

	sort.SliceStable(wrapped, func(i, j int) bool {
		a, b := wrapped[i], wrapped[j]
		if planGroupKey(a.task) != planGroupKey(b.task) {
			return a.index < b.index
		}

		aRange, aOK := ParsePageRange(a.task.Pages)
		bRange, bOK := ParsePageRange(b.task.Pages)
		if !aOK && !bOK {
			return a.index < b.index
		}
		if !aOK {
			return false
		}
		if !bOK {
			return true
		}
		if aRange.Start != bRange.Start {
			return aRange.Start < bRange.Start
		}
		if aRange.End != bRange.End {
			return aRange.End < bRange.End
		}
		return a.index < b.index
	})

	sorted := make([]models.Task, len(wrapped))
	for i, w := range wrapped {
		sorted[i] = w.task
	}
	return sorted
}

// packByCapacity drains the queue into days starting at start, filling each
// usable day up to its capacity. A front task larger than a whole empty day is
// force-placed alone on that day so work is never dropped.
func packByCapacity(settings models.Settings, start time.Time, queue []models.Task) (map[string][]models.Task, error) {
	result := make(map[string][]models.Task)
	cursor := start

	for walked := 0; len(queue) > 0; walked++ {
		if walked >= constants.RebalanceDayCeiling {
			return nil, ErrNoUsableCapacity
		}

		capacity := UsableMinutes(settings, cursor)
		if capacity > 0 {
			key := cursor.Format(constants.DateFormat)
			used := 0
			var pack []models.Task
			for len(queue) > 0 && used+queue[0].Minutes <= capacity {
				task := queue[0]
				queue = queue[1:]
				task.Status = constants.TaskStatusPending
				pack = append(pack, task)
				used += task.Minutes
			}
			if len(pack) == 0 && len(queue) > 0 {
				forced := queue[0]
				queue = queue[1:]
				forced.Status = constants.TaskStatusPending
				pack = append(pack, forced)
			}
			if len(pack) > 0 {
				result[key] = pack
			}
		}
		cursor = cursor.AddDate(0, 0, 1)
	}

	return result, nil
}

// sortTasksByPageRange orders a single date's tasks by parsed page range
// ascending, unparseable last, preserving original order among equals.
func sortTasksByPageRange(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		aRange, aOK := ParsePageRange(tasks[i].Pages)
		bRange, bOK := ParsePageRange(tasks[j].Pages)
		if !aOK && !bOK {
			return false
		}
		if !aOK {
			return false
		}
		if !bOK {
			return true
		}
		if aRange.Start != bRange.Start {
			return aRange.Start < bRange.Start
		}
		return aRange.End < bRange.End
	})
}
