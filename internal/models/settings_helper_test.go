package models

import (
	"testing"

	"github.com/planriseapp/planrise/internal/constants"
)

func TestParseWeekdayMinutes(t *testing.T) {
	minutes, err := ParseWeekdayMinutes("1=150, 2=150,6=180")
	if err != nil {
		t.Fatalf("ParseWeekdayMinutes() error = %v", err)
	}
	if minutes[1] != 150 || minutes[2] != 150 || minutes[6] != 180 {
		t.Errorf("parsed %v, want {1:150 2:150 6:180}", minutes)
	}

	for _, bad := range []string{"7=100", "1=abc", "noequals", "-1=50", "1=-5"} {
		if _, err := ParseWeekdayMinutes(bad); err == nil {
			t.Errorf("ParseWeekdayMinutes(%q) accepted invalid input", bad)
		}
	}
}

func TestFormatWeekdayMinutesStableOrder(t *testing.T) {
	got := FormatWeekdayMinutes(map[int]int{6: 180, 0: 0, 1: 150})
	want := "0=0,1=150,6=180"
	if got != want {
		t.Errorf("FormatWeekdayMinutes() = %q, want %q", got, want)
	}
}

func TestParseOffDays(t *testing.T) {
	days, err := ParseOffDays("6, 0")
	if err != nil {
		t.Fatalf("ParseOffDays() error = %v", err)
	}
	if len(days) != 2 || days[0] != 0 || days[1] != 6 {
		t.Errorf("parsed %v, want [0 6]", days)
	}

	empty, err := ParseOffDays("")
	if err != nil || len(empty) != 0 {
		t.Errorf("ParseOffDays(\"\") = (%v, %v), want empty slice", empty, err)
	}

	if _, err := ParseOffDays("8"); err == nil {
		t.Error("ParseOffDays accepted weekday 8")
	}
}

func TestSettingsMapRoundTrip(t *testing.T) {
	settings := Settings{
		WeekdayMinutes:   map[int]int{1: 150, 5: 180},
		OffDays:          []int{0},
		BufferRatio:      0.25,
		Timezone:         "Asia/Seoul",
		PlanTier:         string(constants.TierProMonthly),
		RemindersEnabled: true,
		ReminderHour:     9,
	}

	got, err := MapToSettings(SettingsToMap(settings))
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}

	if got.WeekdayMinutes[1] != 150 || got.WeekdayMinutes[5] != 180 {
		t.Errorf("weekday minutes lost in round trip: %v", got.WeekdayMinutes)
	}
	if len(got.OffDays) != 1 || got.OffDays[0] != 0 {
		t.Errorf("off days lost in round trip: %v", got.OffDays)
	}
	if got.BufferRatio != 0.25 {
		t.Errorf("buffer ratio = %v, want 0.25", got.BufferRatio)
	}
	if got.Timezone != "Asia/Seoul" || got.PlanTier != string(constants.TierProMonthly) {
		t.Errorf("timezone/tier lost in round trip: %q / %q", got.Timezone, got.PlanTier)
	}
	if !got.RemindersEnabled || got.ReminderHour != 9 {
		t.Errorf("reminder settings lost in round trip: %v / %d", got.RemindersEnabled, got.ReminderHour)
	}
}

func TestApplyDefaultSettings(t *testing.T) {
	settings := Settings{}
	ApplyDefaultSettings(&settings)

	if settings.WeekdayMinutes == nil || settings.OffDays == nil {
		t.Fatal("defaults left nil collections")
	}
	if settings.BufferRatio != constants.DefaultBufferRatio {
		t.Errorf("buffer ratio = %v, want default %v", settings.BufferRatio, constants.DefaultBufferRatio)
	}
	if settings.PlanTier != string(constants.TierFree) {
		t.Errorf("plan tier = %q, want free", settings.PlanTier)
	}
	if settings.ReminderHour != constants.DefaultReminderHour {
		t.Errorf("reminder hour = %d, want %d", settings.ReminderHour, constants.DefaultReminderHour)
	}
}

func TestLimitsForTier(t *testing.T) {
	free := LimitsForTier(string(constants.TierFree))
	if free.AIPlan != 2 || free.Rebalance != 2 {
		t.Errorf("free limits = %+v, want 2/2", free)
	}
	monthly := LimitsForTier(string(constants.TierProMonthly))
	if monthly.AIPlan != 6 || monthly.Rebalance != 10 {
		t.Errorf("pro_monthly limits = %+v, want 6/10", monthly)
	}
	yearly := LimitsForTier(string(constants.TierProYearly))
	if yearly.AIPlan >= 0 || yearly.Rebalance >= 0 {
		t.Errorf("pro_yearly limits = %+v, want unlimited", yearly)
	}
	if unknown := LimitsForTier("mystery"); unknown != free {
		t.Errorf("unknown tier limits = %+v, want the free limits", unknown)
	}
}

func TestWithinLimit(t *testing.T) {
	if !WithinLimit(-1, 1000) {
		t.Error("negative limit should be unlimited")
	}
	if !WithinLimit(2, 1) {
		t.Error("1 of 2 used should fit")
	}
	if WithinLimit(2, 2) {
		t.Error("2 of 2 used should not fit")
	}
}

func TestCalendarCloneIsolation(t *testing.T) {
	cal := NewCalendar()
	cal.Tasks["2026-01-05"] = []Task{{ID: "a", Title: "one", Status: constants.TaskStatusPending}}

	clone := cal.Clone()
	clone.Tasks["2026-01-05"][0].Status = constants.TaskStatusDone
	clone.Tasks["2026-01-06"] = []Task{{ID: "b"}}

	if cal.Tasks["2026-01-05"][0].Status != constants.TaskStatusPending {
		t.Error("mutating the clone changed the original task")
	}
	if _, ok := cal.Tasks["2026-01-06"]; ok {
		t.Error("adding a date to the clone changed the original")
	}
}

func TestPlanRequestFinishByDate(t *testing.T) {
	req := PlanRequest{DueDate: "2026-03-10", TaskType: constants.TaskTypeGeneric}
	finish, err := req.FinishByDate()
	if err != nil {
		t.Fatalf("FinishByDate() error = %v", err)
	}
	if got := finish.Format(constants.DateFormat); got != "2026-03-10" {
		t.Errorf("generic finish = %s, want the due date", got)
	}

	req.TaskType = constants.TaskTypeExamPrep
	finish, err = req.FinishByDate()
	if err != nil {
		t.Fatalf("FinishByDate() error = %v", err)
	}
	if got := finish.Format(constants.DateFormat); got != "2026-03-07" {
		t.Errorf("exam prep finish = %s, want 3 days before the due date", got)
	}
}
