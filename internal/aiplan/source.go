package aiplan

import (
	"context"

	"github.com/planriseapp/planrise/internal/logger"
	"github.com/planriseapp/planrise/internal/models"
	"github.com/planriseapp/planrise/internal/planner"
)

// Schedule sources recorded on committed plans.
const (
	SourceOpenAI   = "openai"
	SourceFallback = "fallback"
)

// BuildSchedule returns a schedule for the request, preferring the generator
// when one is configured and its candidate passes validation, and falling
// back to the local allocator otherwise. The returned source names which path
// produced the schedule.
func BuildSchedule(ctx context.Context, gen Generator, request models.PlanRequest, settings models.Settings) ([]models.ScheduleEntry, string, error) {
	if gen != nil && gen.Available() {
		candidate, err := gen.GenerateSchedule(ctx, request, settings)
		if err != nil {
			logger.Warn("AI schedule unavailable, using local allocator", "error", err)
		} else if err := planner.ValidateSchedule(candidate, request); err != nil {
			logger.Warn("AI schedule rejected, using local allocator", "error", err)
		} else {
			return candidate, SourceOpenAI, nil
		}
	}

	entries, err := planner.Allocate(request, settings)
	if err != nil {
		return nil, "", err
	}
	return entries, SourceFallback, nil
}
