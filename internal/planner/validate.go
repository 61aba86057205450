package planner

import (
	"fmt"

	"github.com/planriseapp/planrise/internal/models"
)

// ValidateSchedule checks that a candidate schedule (locally allocated or
// supplied by an external generator) forms a contiguous, gap-free, increasing
// partition of the requested page range on strictly increasing dates. Any
// candidate that fails here must be replaced by a local allocation.
func ValidateSchedule(entries []models.ScheduleEntry, request models.PlanRequest) error {
	if len(entries) == 0 {
		return fmt.Errorf("schedule is empty")
	}

	startPage := request.StartPage
	if startPage < 1 {
		startPage = 1
	}

	nextPage := startPage
	prevDate := ""
	totalPages := 0

	for i, entry := range entries {
		if entry.Date <= prevDate {
			return fmt.Errorf("entry %d: date %s is not after %s", i, entry.Date, prevDate)
		}
		prevDate = entry.Date

		if entry.Pages <= 0 {
			return fmt.Errorf("entry %d: non-positive page count %d", i, entry.Pages)
		}
		if entry.PageFrom != nextPage {
			return fmt.Errorf("entry %d: page range starts at %d, want %d", i, entry.PageFrom, nextPage)
		}
		if entry.PageTo != entry.PageFrom+entry.Pages-1 {
			return fmt.Errorf("entry %d: page range %d-%d does not span %d pages", i, entry.PageFrom, entry.PageTo, entry.Pages)
		}
		if entry.Minutes <= 0 {
			return fmt.Errorf("entry %d: non-positive minutes %d", i, entry.Minutes)
		}

		nextPage = entry.PageTo + 1
		totalPages += entry.Pages
	}

	if totalPages != request.TotalPages {
		return fmt.Errorf("schedule covers %d pages, want %d", totalPages, request.TotalPages)
	}

	return nil
}
