package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/planriseapp/planrise/internal/aiplan"
	"github.com/planriseapp/planrise/internal/cli"
	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/errors"
	"github.com/planriseapp/planrise/internal/logger"
	"github.com/planriseapp/planrise/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store file path (.json, .db, or .sqlite)." type:"path" default:"~/.config/planrise/planrise.json"`
	Debug   bool   `help:"Enable debug logging." hidden:""`

	Init      cli.InitCmd      `cmd:"" help:"Initialize planrise storage."`
	Calendar  cli.CalendarCmd  `cmd:"" help:"Show the study calendar." default:"1"`
	Rebalance cli.RebalanceCmd `cmd:"" help:"Repack unfinished work from tomorrow onward."`
	Doctor    cli.DoctorCmd    `cmd:"" help:"Run health checks."`
	Notify struct {
		Send          cli.NotifySendCmd          `cmd:"" default:"1" help:"Send the daily reminder summary."`
		Subscribe     cli.NotifySubscribeCmd     `cmd:"" help:"Register a push endpoint."`
		Subscriptions cli.NotifySubscriptionsCmd `cmd:"" help:"List registered push endpoints."`
		Unsubscribe   cli.NotifyUnsubscribeCmd   `cmd:"" help:"Remove a push endpoint."`
	} `cmd:"" help:"Reminder delivery." hidden:""`

	Plan struct {
		New    cli.PlanNewCmd    `cmd:"" help:"Check feasibility and schedule a new study plan."`
		List   cli.PlanListCmd   `cmd:"" help:"List committed plans."`
		Delete cli.PlanDeleteCmd `cmd:"" help:"Delete a plan and its pending tasks."`
	} `cmd:"" help:"Manage study plans."`

	Task struct {
		Add    cli.TaskAddCmd    `cmd:"" help:"Add a one-off task."`
		List   cli.TaskListCmd   `cmd:"" help:"List calendar tasks."`
		Done   cli.TaskDoneCmd   `cmd:"" help:"Mark a task done."`
		Miss   cli.TaskMissCmd   `cmd:"" help:"Mark a task missed."`
		Edit   cli.TaskEditCmd   `cmd:"" help:"Edit a task."`
		Delete cli.TaskDeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage calendar tasks."`

	Dday struct {
		Add        cli.DdayAddCmd        `cmd:"" help:"Add a countdown."`
		List       cli.DdayListCmd       `cmd:"" help:"List countdowns."`
		SetPrimary cli.DdaySetPrimaryCmd `cmd:"" name:"set-primary" help:"Choose the primary countdown."`
		Delete     cli.DdayDeleteCmd     `cmd:"" help:"Delete a countdown."`
	} `cmd:"" help:"Manage exam countdowns."`

	Settings struct {
		List   cli.SettingsListCmd   `cmd:"" help:"Show the scheduling profile."`
		Update cli.SettingsUpdateCmd `cmd:"" help:"Update the scheduling profile."`
	} `cmd:"" help:"Manage settings."`

	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a store backup."`
		List    cli.BackupListCmd    `cmd:"" help:"List store backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the store from a backup."`
	} `cmd:"" help:"Manage store backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Capacity-aware study planner"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	appCtx := &cli.Context{
		Store: storage.NewProvider(CLI.Config),
		Generator: aiplan.NewClient(aiplan.Config{
			APIKey:  os.Getenv("PLANRISE_OPENAI_API_KEY"),
			Model:   os.Getenv("PLANRISE_OPENAI_MODEL"),
			BaseURL: os.Getenv("PLANRISE_OPENAI_BASE_URL"),
		}),
	}
	err := ctx.Run(appCtx)
	if closeErr := appCtx.Store.Close(); closeErr != nil {
		logger.Warn("failed to close store", "error", closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
}
