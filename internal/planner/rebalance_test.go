package planner

import (
	"errors"
	"testing"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
)

func pendingTask(id, title, pages string, minutes int) models.Task {
	return models.Task{
		ID:       id,
		Title:    title,
		Minutes:  minutes,
		Pages:    pages,
		TaskType: constants.TaskTypeGeneric,
		Status:   constants.TaskStatusPending,
		Source:   constants.TaskSourcePlan,
	}
}

func TestRebalance_MovesUnfinishedWorkPastToday(t *testing.T) {
	// 2026-01-07 is a Wednesday
	today := "2026-01-07"
	calendar := models.NewCalendar()

	done := pendingTask("t0", "Math Linear Algebra", "1-10", 30)
	done.Status = constants.TaskStatusDone
	calendar.Tasks["2026-01-06"] = []models.Task{done}
	calendar.Tasks[today] = []models.Task{
		pendingTask("t1", "Math Linear Algebra", "11-30", 80),
		pendingTask("t2", "Math Linear Algebra", "31-45", 60),
	}

	result, err := Rebalance(testSettings(), calendar, today)
	if err != nil {
		t.Fatalf("Rebalance failed: %v", err)
	}

	yesterday := result.Tasks["2026-01-06"]
	if len(yesterday) != 1 || yesterday[0].ID != "t0" || yesterday[0].Status != constants.TaskStatusDone {
		t.Errorf("expected yesterday's done task untouched, got %+v", yesterday)
	}

	for _, date := range result.SortedDates() {
		for _, task := range result.Tasks[date] {
			if task.Status == constants.TaskStatusDone {
				continue
			}
			if date <= today {
				t.Errorf("task %s repacked to %s, on or before today", task.ID, date)
			}
		}
	}
}

func TestRebalance_PreservesUnfinishedTaskCount(t *testing.T) {
	today := "2026-01-07"
	calendar := models.NewCalendar()
	calendar.Tasks["2026-01-05"] = []models.Task{
		pendingTask("a1", "History Notes", "1-5", 40),
		pendingTask("a2", "History Notes", "6-12", 50),
	}
	calendar.Tasks[today] = []models.Task{pendingTask("b1", "Math Linear Algebra", "1-20", 70)}
	calendar.Tasks["2026-01-09"] = []models.Task{pendingTask("c1", "Math Linear Algebra", "21-40", 70)}

	result, err := Rebalance(testSettings(), calendar, today)
	if err != nil {
		t.Fatalf("Rebalance failed: %v", err)
	}

	before := calendar.CountByStatus(constants.TaskStatusPending)
	after := result.CountByStatus(constants.TaskStatusPending)
	if before != after {
		t.Errorf("pending task count changed: %d before, %d after", before, after)
	}
}

func TestRebalance_KeepsPlanPageOrder(t *testing.T) {
	today := "2026-01-07"
	calendar := models.NewCalendar()
	// Later pages stranded on an earlier date than earlier pages
	calendar.Tasks["2026-01-05"] = []models.Task{pendingTask("p2", "Math Linear Algebra", "21-40", 60)}
	calendar.Tasks["2026-01-06"] = []models.Task{pendingTask("p1", "Math Linear Algebra", "1-20", 60)}

	result, err := Rebalance(testSettings(), calendar, today)
	if err != nil {
		t.Fatalf("Rebalance failed: %v", err)
	}

	var order []string
	for _, date := range result.SortedDates() {
		for _, task := range result.Tasks[date] {
			order = append(order, task.ID)
		}
	}
	if len(order) != 2 || order[0] != "p1" || order[1] != "p2" {
		t.Errorf("expected page order p1,p2 after repack, got %v", order)
	}
}

func TestRebalance_PacksUpToDailyCapacity(t *testing.T) {
	today := "2026-01-07" // tomorrow is Thursday, 120 usable minutes
	calendar := models.NewCalendar()
	calendar.Tasks[today] = []models.Task{
		pendingTask("t1", "Math Linear Algebra", "1-10", 80),
		pendingTask("t2", "Math Linear Algebra", "11-20", 60),
	}

	result, err := Rebalance(testSettings(), calendar, today)
	if err != nil {
		t.Fatalf("Rebalance failed: %v", err)
	}

	thursday := result.Tasks["2026-01-08"]
	if len(thursday) != 1 || thursday[0].ID != "t1" {
		t.Fatalf("expected only t1 on tomorrow (80+60 > 120), got %+v", thursday)
	}
	friday := result.Tasks["2026-01-09"]
	if len(friday) != 1 || friday[0].ID != "t2" {
		t.Fatalf("expected t2 carried to the next day, got %+v", friday)
	}
}

func TestRebalance_ForcePlacesOversizedTask(t *testing.T) {
	today := "2026-01-07"
	calendar := models.NewCalendar()
	calendar.Tasks[today] = []models.Task{pendingTask("big", "Math Linear Algebra", "1-100", 500)}

	result, err := Rebalance(testSettings(), calendar, today)
	if err != nil {
		t.Fatalf("Rebalance failed: %v", err)
	}

	thursday := result.Tasks["2026-01-08"]
	if len(thursday) != 1 || thursday[0].ID != "big" {
		t.Errorf("expected the oversized task force-placed alone on tomorrow, got %+v", thursday)
	}
}

func TestRebalance_SortsResultDatesByPageRange(t *testing.T) {
	today := "2026-01-07"
	calendar := models.NewCalendar()
	calendar.Tasks[today] = []models.Task{
		pendingTask("t2", "Math Linear Algebra", "11-20", 30),
		pendingTask("t1", "Math Linear Algebra", "1-10", 30),
		pendingTask("t3", "Math Linear Algebra", "errata", 10),
	}

	result, err := Rebalance(testSettings(), calendar, today)
	if err != nil {
		t.Fatalf("Rebalance failed: %v", err)
	}

	thursday := result.Tasks["2026-01-08"]
	if len(thursday) != 3 {
		t.Fatalf("expected all three tasks on tomorrow, got %d", len(thursday))
	}
	if thursday[0].ID != "t1" || thursday[1].ID != "t2" || thursday[2].ID != "t3" {
		t.Errorf("expected page-range order t1,t2,t3 (unparseable last), got %s,%s,%s",
			thursday[0].ID, thursday[1].ID, thursday[2].ID)
	}
}

func TestRebalance_ZeroCapacityProfileHitsCeiling(t *testing.T) {
	settings := testSettings()
	settings.OffDays = []int{0, 1, 2, 3, 4, 5, 6}

	calendar := models.NewCalendar()
	calendar.Tasks["2026-01-07"] = []models.Task{pendingTask("t1", "Math Linear Algebra", "1-10", 30)}

	if _, err := Rebalance(settings, calendar, "2026-01-07"); !errors.Is(err, ErrNoUsableCapacity) {
		t.Errorf("expected ErrNoUsableCapacity, got %v", err)
	}
}

func TestRebalance_EmptyQueueReturnsCalendarUnchanged(t *testing.T) {
	calendar := models.NewCalendar()
	done := pendingTask("t0", "Math Linear Algebra", "1-10", 30)
	done.Status = constants.TaskStatusDone
	calendar.Tasks["2026-01-06"] = []models.Task{done}

	result, err := Rebalance(testSettings(), calendar, "2026-01-07")
	if err != nil {
		t.Fatalf("Rebalance failed: %v", err)
	}
	if len(result.Tasks["2026-01-06"]) != 1 {
		t.Errorf("expected done task preserved, got %+v", result.Tasks)
	}

	// Build-new contract: mutating the result must not touch the input
	result.Tasks["2026-01-06"][0].Status = constants.TaskStatusPending
	if calendar.Tasks["2026-01-06"][0].Status != constants.TaskStatusDone {
		t.Error("input calendar was mutated by Rebalance")
	}
}
