package planner

import (
	"time"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
)

// Evaluate pre-flight checks a plan request against the profile. It is a
// precondition for Allocate: a request that fails here must never be
// allocated. Refusals carry the diagnostic numbers the caller can show.
func Evaluate(request models.PlanRequest, settings models.Settings) models.FeasibilityResult {
	requiredMinutes := request.RequiredMinutes()

	start, err := time.Parse(constants.DateFormat, request.StartDate)
	if err != nil {
		return models.FeasibilityResult{Feasible: false, Reason: models.ReasonInvalidDate}
	}
	finishBy, err := request.FinishByDate()
	if err != nil {
		return models.FeasibilityResult{Feasible: false, Reason: models.ReasonInvalidDate}
	}

	if finishBy.Before(start) {
		return models.FeasibilityResult{Feasible: false, Reason: models.ReasonInvalidRange}
	}

	if request.TotalPages <= 0 {
		return models.FeasibilityResult{Feasible: false, Reason: models.ReasonInvalidPages}
	}

	availableMinutes := 0
	availableDays := 0
	for _, date := range dateRange(start, finishBy) {
		usable := UsableMinutes(settings, date)
		if usable > 0 {
			availableDays++
			availableMinutes += usable
		}
	}

	if availableDays == 0 || availableMinutes == 0 {
		return models.FeasibilityResult{
			Feasible:         false,
			Reason:           models.ReasonNoCapacity,
			RequiredMinutes:  requiredMinutes,
			AvailableMinutes: availableMinutes,
			AvailableDays:    availableDays,
		}
	}

	if requiredMinutes > availableMinutes {
		return models.FeasibilityResult{
			Feasible:         false,
			Reason:           models.ReasonCapacityShortage,
			RequiredMinutes:  requiredMinutes,
			AvailableMinutes: availableMinutes,
			AvailableDays:    availableDays,
			ShortageMinutes:  requiredMinutes - availableMinutes,
		}
	}

	return models.FeasibilityResult{
		Feasible:         true,
		Reason:           models.ReasonOK,
		RequiredMinutes:  requiredMinutes,
		AvailableMinutes: availableMinutes,
		AvailableDays:    availableDays,
	}
}
