package planner

import (
	"time"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
)

// UsableMinutes returns the schedulable minutes for a calendar date: the
// configured minutes for that weekday with the safety buffer removed, or 0 on
// off days. Malformed configuration coerces to zero capacity rather than
// erroring so date-range loops stay total.
func UsableMinutes(settings models.Settings, date time.Time) int {
	weekday := int(date.Weekday())
	if settings.IsOffDay(weekday) {
		return 0
	}

	configured := settings.WeekdayMinutes[weekday]
	if configured <= 0 {
		return 0
	}

	ratio := clampBufferRatio(settings.BufferRatio)
	return int(float64(configured) * (1 - ratio))
}

func clampBufferRatio(ratio float64) float64 {
	if ratio < constants.MinBufferRatio {
		return constants.MinBufferRatio
	}
	if ratio > constants.MaxBufferRatio {
		return constants.MaxBufferRatio
	}
	return ratio
}

// dateRange returns every date in [start, end] inclusive.
func dateRange(start, end time.Time) []time.Time {
	var dates []time.Time
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		dates = append(dates, cur)
	}
	return dates
}
