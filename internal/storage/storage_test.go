package storage

import (
	"path/filepath"
	"testing"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
)

func openProviders(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()
	providers := map[string]Provider{
		"json":   NewJSONStore(filepath.Join(dir, "planrise.json")),
		"sqlite": NewSQLiteStore(filepath.Join(dir, "planrise.db")),
	}
	for name, provider := range providers {
		if err := provider.Init(); err != nil {
			t.Fatalf("%s: Init failed: %v", name, err)
		}
		t.Cleanup(func() { provider.Close() })
	}
	return providers
}

func TestNewProvider_SelectsBackendByExtension(t *testing.T) {
	if _, ok := NewProvider("planrise.db").(*SQLiteStore); !ok {
		t.Error("expected sqlite store for .db path")
	}
	if _, ok := NewProvider("planrise.json").(*JSONStore); !ok {
		t.Error("expected JSON store for .json path")
	}
}

func TestInit_SeedsDefaultSettings(t *testing.T) {
	for name, provider := range openProviders(t) {
		settings, err := provider.GetSettings()
		if err != nil {
			t.Fatalf("%s: GetSettings failed: %v", name, err)
		}
		if settings.BufferRatio != constants.DefaultBufferRatio {
			t.Errorf("%s: expected default buffer ratio, got %f", name, settings.BufferRatio)
		}
		if settings.WeekdayMinutes[1] != 150 {
			t.Errorf("%s: expected 150 default Monday minutes, got %d", name, settings.WeekdayMinutes[1])
		}
		if !settings.IsOffDay(0) {
			t.Errorf("%s: expected Sunday as default off day", name)
		}
	}
}

func TestSettings_RoundTrip(t *testing.T) {
	for name, provider := range openProviders(t) {
		settings, err := provider.GetSettings()
		if err != nil {
			t.Fatalf("%s: GetSettings failed: %v", name, err)
		}
		settings.BufferRatio = 0.3
		settings.OffDays = []int{0, 6}
		settings.WeekdayMinutes[3] = 90

		if err := provider.SaveSettings(settings); err != nil {
			t.Fatalf("%s: SaveSettings failed: %v", name, err)
		}
		loaded, err := provider.GetSettings()
		if err != nil {
			t.Fatalf("%s: GetSettings failed: %v", name, err)
		}
		if loaded.BufferRatio != 0.3 {
			t.Errorf("%s: buffer ratio not persisted, got %f", name, loaded.BufferRatio)
		}
		if len(loaded.OffDays) != 2 {
			t.Errorf("%s: off days not persisted, got %v", name, loaded.OffDays)
		}
		if loaded.WeekdayMinutes[3] != 90 {
			t.Errorf("%s: weekday minutes not persisted, got %d", name, loaded.WeekdayMinutes[3])
		}
	}
}

func TestCalendar_TaskLifecycle(t *testing.T) {
	for name, provider := range openProviders(t) {
		task := models.Task{
			ID:      "t1",
			Title:   "Math Linear Algebra",
			Minutes: 60,
			Pages:   "1-20",
			Status:  constants.TaskStatusPending,
			Source:  constants.TaskSourcePlan,
		}
		if err := provider.AddTask("2026-01-05", task); err != nil {
			t.Fatalf("%s: AddTask failed: %v", name, err)
		}

		date, loaded, err := provider.GetTask("t1")
		if err != nil {
			t.Fatalf("%s: GetTask failed: %v", name, err)
		}
		if date != "2026-01-05" || loaded.Minutes != 60 {
			t.Errorf("%s: loaded task mismatch: %s %+v", name, date, loaded)
		}

		if err := provider.SetTaskStatus("t1", constants.TaskStatusDone); err != nil {
			t.Fatalf("%s: SetTaskStatus failed: %v", name, err)
		}
		_, loaded, _ = provider.GetTask("t1")
		if loaded.Status != constants.TaskStatusDone {
			t.Errorf("%s: status change not persisted", name)
		}

		loaded.Minutes = 45
		if err := provider.UpdateTask("t1", "2026-01-06", loaded); err != nil {
			t.Fatalf("%s: UpdateTask failed: %v", name, err)
		}
		date, loaded, _ = provider.GetTask("t1")
		if date != "2026-01-06" || loaded.Minutes != 45 {
			t.Errorf("%s: update not persisted: %s %+v", name, date, loaded)
		}

		if err := provider.DeleteTask("t1"); err != nil {
			t.Fatalf("%s: DeleteTask failed: %v", name, err)
		}
		if _, _, err := provider.GetTask("t1"); err == nil {
			t.Errorf("%s: expected error for deleted task", name)
		}
	}
}

func TestReplaceCalendar_SwapsWholeSnapshot(t *testing.T) {
	for name, provider := range openProviders(t) {
		if err := provider.AddTask("2026-01-05", models.Task{
			ID: "old", Title: "Old", Minutes: 30,
			Status: constants.TaskStatusPending, Source: constants.TaskSourceManual,
		}); err != nil {
			t.Fatalf("%s: AddTask failed: %v", name, err)
		}

		next := models.NewCalendar()
		next.Tasks["2026-01-08"] = []models.Task{
			{ID: "n1", Title: "New", Minutes: 40, Pages: "1-10", Status: constants.TaskStatusPending, Source: constants.TaskSourcePlan},
			{ID: "n2", Title: "New", Minutes: 40, Pages: "11-20", Status: constants.TaskStatusPending, Source: constants.TaskSourcePlan},
		}
		if err := provider.ReplaceCalendar(next); err != nil {
			t.Fatalf("%s: ReplaceCalendar failed: %v", name, err)
		}

		calendar, err := provider.GetCalendar()
		if err != nil {
			t.Fatalf("%s: GetCalendar failed: %v", name, err)
		}
		if len(calendar.Tasks) != 1 {
			t.Fatalf("%s: expected 1 date after replace, got %d", name, len(calendar.Tasks))
		}
		day := calendar.Tasks["2026-01-08"]
		if len(day) != 2 || day[0].ID != "n1" || day[1].ID != "n2" {
			t.Errorf("%s: replaced snapshot wrong or order lost: %+v", name, day)
		}
	}
}

func TestPlans_RoundTrip(t *testing.T) {
	for name, provider := range openProviders(t) {
		plan := models.Plan{
			ID:        "p1",
			Name:      "Linear Algebra",
			Subject:   "Math",
			TaskType:  constants.TaskTypeGeneric,
			DueDate:   "2026-01-09",
			Source:    "fallback",
			CreatedAt: "2026-01-01T09:00:00Z",
			Schedule: []models.ScheduleEntry{
				{Date: "2026-01-05", Minutes: 24, Pages: 8, PageFrom: 1, PageTo: 8, Status: constants.TaskStatusPending},
			},
		}
		if err := provider.AddPlan(plan); err != nil {
			t.Fatalf("%s: AddPlan failed: %v", name, err)
		}

		plans, err := provider.GetAllPlans()
		if err != nil {
			t.Fatalf("%s: GetAllPlans failed: %v", name, err)
		}
		if len(plans) != 1 || len(plans[0].Schedule) != 1 || plans[0].Schedule[0].PageTo != 8 {
			t.Errorf("%s: plan round trip failed: %+v", name, plans)
		}

		if err := provider.DeletePlan("p1"); err != nil {
			t.Fatalf("%s: DeletePlan failed: %v", name, err)
		}
		if plans, _ := provider.GetAllPlans(); len(plans) != 0 {
			t.Errorf("%s: plan not deleted", name)
		}
	}
}

func TestQuotaAndDdays_RoundTrip(t *testing.T) {
	for name, provider := range openProviders(t) {
		quota := models.Quota{Month: "2026-01", AIPlanUsed: 1, RebalanceUsed: 2}
		if err := provider.SaveQuota(quota); err != nil {
			t.Fatalf("%s: SaveQuota failed: %v", name, err)
		}
		loaded, err := provider.GetQuota()
		if err != nil {
			t.Fatalf("%s: GetQuota failed: %v", name, err)
		}
		if loaded != quota {
			t.Errorf("%s: quota round trip failed: %+v", name, loaded)
		}

		state := models.DdayState{
			Items: []models.Dday{
				{ID: "d1", Title: "Final Exam", Date: "2026-03-01"},
				{ID: "d2", Title: "Mock Test", Date: "2026-02-01"},
			},
			PrimaryID: "d1",
		}
		if err := provider.SaveDdayState(state); err != nil {
			t.Fatalf("%s: SaveDdayState failed: %v", name, err)
		}
		got, err := provider.GetDdayState()
		if err != nil {
			t.Fatalf("%s: GetDdayState failed: %v", name, err)
		}
		if len(got.Items) != 2 || got.PrimaryID != "d1" {
			t.Errorf("%s: dday round trip failed: %+v", name, got)
		}
	}
}

func TestSubscriptions_UpsertByEndpoint(t *testing.T) {
	for name, provider := range openProviders(t) {
		sub := models.Subscription{Endpoint: "https://push.example/abc"}
		sub.Keys.P256dh = "key1"
		sub.Keys.Auth = "auth1"
		if err := provider.AddSubscription(sub); err != nil {
			t.Fatalf("%s: AddSubscription failed: %v", name, err)
		}

		sub.Keys.Auth = "auth2"
		if err := provider.AddSubscription(sub); err != nil {
			t.Fatalf("%s: AddSubscription (update) failed: %v", name, err)
		}

		subs, err := provider.GetSubscriptions()
		if err != nil {
			t.Fatalf("%s: GetSubscriptions failed: %v", name, err)
		}
		if len(subs) != 1 || subs[0].Keys.Auth != "auth2" {
			t.Errorf("%s: expected single updated subscription, got %+v", name, subs)
		}
	}
}

func TestSubscriptions_Delete(t *testing.T) {
	for name, provider := range openProviders(t) {
		keep := models.Subscription{Endpoint: "https://push.example/keep"}
		drop := models.Subscription{Endpoint: "https://push.example/drop"}
		if err := provider.AddSubscription(keep); err != nil {
			t.Fatalf("%s: AddSubscription failed: %v", name, err)
		}
		if err := provider.AddSubscription(drop); err != nil {
			t.Fatalf("%s: AddSubscription failed: %v", name, err)
		}

		if err := provider.DeleteSubscription(drop.Endpoint); err != nil {
			t.Fatalf("%s: DeleteSubscription failed: %v", name, err)
		}

		subs, err := provider.GetSubscriptions()
		if err != nil {
			t.Fatalf("%s: GetSubscriptions failed: %v", name, err)
		}
		if len(subs) != 1 || subs[0].Endpoint != keep.Endpoint {
			t.Errorf("%s: expected only the kept endpoint, got %+v", name, subs)
		}

		if err := provider.DeleteSubscription("https://push.example/absent"); err == nil {
			t.Errorf("%s: DeleteSubscription succeeded for an unknown endpoint", name)
		}
	}
}

func TestJSONStore_LoadPersistedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planrise.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.AddTask("2026-01-05", models.Task{
		ID: "t1", Title: "Reading", Minutes: 30,
		Status: constants.TaskStatusPending, Source: constants.TaskSourceManual,
	}); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	calendar, err := reopened.GetCalendar()
	if err != nil {
		t.Fatalf("GetCalendar failed: %v", err)
	}
	if len(calendar.Tasks["2026-01-05"]) != 1 {
		t.Errorf("expected persisted task after reload, got %+v", calendar.Tasks)
	}
}

func TestJSONStore_LoadMissingFileErrors(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("expected error loading uninitialized storage")
	}
}
