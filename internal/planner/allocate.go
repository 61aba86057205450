package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
)

// ErrNoAssignableDays means the request window contains no date with usable capacity.
var ErrNoAssignableDays = errors.New("no assignable days between start and finish dates")

// UnallocableError reports pages that could not be placed before the finish
// date. After a passing Evaluate over the same profile this is unreachable;
// seeing it means feasibility was bypassed or the profile changed in between.
type UnallocableError struct {
	RemainingPages   int
	RemainingMinutes int
}

func (e *UnallocableError) Error() string {
	return fmt.Sprintf("%d pages (%d minutes) could not be allocated before the finish date", e.RemainingPages, e.RemainingMinutes)
}

// Allocate distributes the requested pages across the usable days of the
// request window. The per-day target is an even split of the required minutes;
// pages are indivisible, so minutes follow pages rather than the reverse.
func Allocate(request models.PlanRequest, settings models.Settings) ([]models.ScheduleEntry, error) {
	start, err := time.Parse(constants.DateFormat, request.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	finishBy, err := request.FinishByDate()
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %w", err)
	}

	totalPages := request.TotalPages
	startPage := request.StartPage
	if startPage < 1 {
		startPage = 1
	}
	minutesPerPage := request.MinutesPerPage
	if minutesPerPage < 1 {
		minutesPerPage = 1
	}

	var days []time.Time
	for _, date := range dateRange(start, finishBy) {
		if UsableMinutes(settings, date) > 0 {
			days = append(days, date)
		}
	}
	if len(days) == 0 {
		return nil, ErrNoAssignableDays
	}

	requiredMinutes := totalPages * minutesPerPage
	perDayTarget := (requiredMinutes + len(days) - 1) / len(days)

	remainingPages := totalPages
	nextPage := startPage
	var entries []models.ScheduleEntry

	for _, day := range days {
		allocMinutes := UsableMinutes(settings, day)
		if perDayTarget < allocMinutes {
			allocMinutes = perDayTarget
		}
		allocPages := (allocMinutes + minutesPerPage - 1) / minutesPerPage
		if allocPages > remainingPages {
			allocPages = remainingPages
		}

		if allocPages > 0 {
			entries = append(entries, models.ScheduleEntry{
				Date:     day.Format(constants.DateFormat),
				Minutes:  allocPages * minutesPerPage,
				Pages:    allocPages,
				PageFrom: nextPage,
				PageTo:   nextPage + allocPages - 1,
				Status:   constants.TaskStatusPending,
			})
			remainingPages -= allocPages
			nextPage += allocPages
		}

		if remainingPages == 0 {
			break
		}
	}

	if remainingPages > 0 {
		return nil, &UnallocableError{
			RemainingPages:   remainingPages,
			RemainingMinutes: remainingPages * minutesPerPage,
		}
	}

	return entries, nil
}
