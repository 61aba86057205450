package storage

import (
	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Calendar
	GetCalendar() (models.Calendar, error)
	// ReplaceCalendar swaps in a whole new calendar snapshot. The engine
	// builds new calendars rather than mutating old ones, so this is the
	// single write path for rebalance results.
	ReplaceCalendar(models.Calendar) error
	AddTask(date string, task models.Task) error
	GetTask(id string) (date string, task models.Task, err error)
	SetTaskStatus(id string, status constants.TaskStatus) error
	UpdateTask(id string, date string, task models.Task) error
	DeleteTask(id string) error
	ClearCalendar() error

	// Plans
	AddPlan(models.Plan) error
	GetAllPlans() ([]models.Plan, error)
	DeletePlan(id string) error

	// D-days
	GetDdayState() (models.DdayState, error)
	SaveDdayState(models.DdayState) error

	// Quotas
	GetQuota() (models.Quota, error)
	SaveQuota(models.Quota) error

	// Push subscriptions
	AddSubscription(models.Subscription) error
	GetSubscriptions() ([]models.Subscription, error)
	DeleteSubscription(endpoint string) error

	// Utils
	GetConfigPath() string
}
