package models

import (
	"time"

	"github.com/planriseapp/planrise/internal/constants"
)

// FeasibilityReason classifies the outcome of a plan feasibility check
type FeasibilityReason string

const (
	ReasonOK               FeasibilityReason = "ok"
	ReasonInvalidDate      FeasibilityReason = "invalid_date"
	ReasonInvalidRange     FeasibilityReason = "invalid_range"
	ReasonInvalidPages     FeasibilityReason = "invalid_pages"
	ReasonNoCapacity       FeasibilityReason = "no_capacity"
	ReasonCapacityShortage FeasibilityReason = "capacity_shortage"
)

// PlanRequest is an intent to schedule reading/study work across a date window.
type PlanRequest struct {
	BookName      string             `json:"book_name"`
	Subject       string             `json:"subject"`
	TaskType      constants.TaskType `json:"task_type"`
	TotalPages    int                `json:"total_pages"`
	MinutesPerPage int               `json:"minutes_per_page"`
	StartPage     int                `json:"start_page"`
	StartDate     string             `json:"start_date"` // YYYY-MM-DD
	DueDate       string             `json:"due_date"`   // YYYY-MM-DD
	Notes         string             `json:"notes,omitempty"`
}

// RequiredMinutes is the total work the request represents.
func (r PlanRequest) RequiredMinutes() int {
	return r.TotalPages * r.MinutesPerPage
}

// FinishByDate is the last assignable date: the due date, except for exam
// prep where the final days before the exam are reserved for review.
func (r PlanRequest) FinishByDate() (time.Time, error) {
	due, err := time.Parse(constants.DateFormat, r.DueDate)
	if err != nil {
		return time.Time{}, err
	}
	if r.TaskType == constants.TaskTypeExamPrep {
		due = due.AddDate(0, 0, -constants.ExamPrepLeadDays)
	}
	return due, nil
}

// FeasibilityResult is the outcome of checking a PlanRequest against a profile.
type FeasibilityResult struct {
	Feasible        bool              `json:"feasible"`
	Reason          FeasibilityReason `json:"reason"`
	RequiredMinutes int               `json:"required_minutes,omitempty"`
	AvailableMinutes int              `json:"available_minutes,omitempty"`
	AvailableDays   int               `json:"available_days,omitempty"`
	ShortageMinutes int               `json:"shortage_minutes,omitempty"`
}

// ScheduleEntry is one allocator output row: the pages and minutes assigned to a date.
type ScheduleEntry struct {
	Date     string               `json:"date"` // YYYY-MM-DD
	Minutes  int                  `json:"minutes"`
	Pages    int                  `json:"pages"`
	PageFrom int                  `json:"page_from"`
	PageTo   int                  `json:"page_to"`
	Status   constants.TaskStatus `json:"status"`
}

// Plan is a committed schedule with its originating request metadata.
type Plan struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Subject   string             `json:"subject"`
	TaskType  constants.TaskType `json:"task_type"`
	DueDate   string             `json:"due_date"`
	Notes     string             `json:"notes,omitempty"`
	Schedule  []ScheduleEntry    `json:"schedule"`
	Source    string             `json:"source"` // openai or fallback
	CreatedAt string             `json:"created_at"` // RFC3339 timestamp
}
