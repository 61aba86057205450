package cli

import (
	"fmt"
	"time"

	"github.com/planriseapp/planrise/internal/backup"
	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/planner"
	"github.com/planriseapp/planrise/internal/storage"
	"github.com/planriseapp/planrise/internal/utils"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	if err := checkStoreReachable(ctx); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Store reachable: OK\n")
		storeReachable = true
	}

	if storeReachable {
		if err := checkProfile(ctx); err != nil {
			fmt.Printf("❌ Scheduling profile: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Scheduling profile: OK\n")
		}

		if err := checkCalendarIntegrity(ctx); err != nil {
			fmt.Printf("❌ Calendar integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Calendar integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Scheduling profile: SKIPPED (store not reachable)\n")
		fmt.Printf("⊘ Calendar integrity: SKIPPED (store not reachable)\n")
	}

	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	if err := checkClockTimezone(ctx, storeReachable); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

// checkProfile validates the scheduling profile the engine depends on.
func checkProfile(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if len(settings.WeekdayMinutes) == 0 {
		return fmt.Errorf("no weekday minutes configured")
	}
	for day, minutes := range settings.WeekdayMinutes {
		if day < 0 || day > 6 {
			return fmt.Errorf("weekday minutes has invalid weekday %d", day)
		}
		if minutes < 0 {
			return fmt.Errorf("weekday %d has negative minutes", day)
		}
	}
	for _, day := range settings.OffDays {
		if day < 0 || day > 6 {
			return fmt.Errorf("off days has invalid weekday %d", day)
		}
	}
	if settings.BufferRatio < 0 || settings.BufferRatio >= 1 {
		return fmt.Errorf("buffer ratio %.2f outside [0, 1)", settings.BufferRatio)
	}

	usable := 0
	start := time.Now()
	for i := 0; i < 7; i++ {
		usable += planner.UsableMinutes(settings, start.AddDate(0, 0, i))
	}
	if usable == 0 {
		return fmt.Errorf("profile yields zero usable minutes across a full week")
	}

	return nil
}

func checkCalendarIntegrity(ctx *Context) error {
	calendar, err := ctx.Store.GetCalendar()
	if err != nil {
		return fmt.Errorf("failed to get calendar: %w", err)
	}

	taskIDs := make(map[string]bool)
	for date, tasks := range calendar.Tasks {
		if !utils.ValidateDateFormat(date) {
			return fmt.Errorf("invalid calendar date: %q", date)
		}
		for _, task := range tasks {
			if taskIDs[task.ID] {
				return fmt.Errorf("duplicate task ID found: %s", task.ID)
			}
			taskIDs[task.ID] = true
			if task.Minutes < 0 {
				return fmt.Errorf("task %s has negative minutes", shortID(task.ID))
			}
		}
	}

	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}

	return nil
}

func checkClockTimezone(ctx *Context, storeReachable bool) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if storeReachable {
		settings, err := ctx.Store.GetSettings()
		if err == nil {
			if _, err := utils.LoadLocation(settings.Timezone); err != nil {
				return fmt.Errorf("configured timezone %q is not loadable: %w", settings.Timezone, err)
			}
		}
	}

	return nil
}
