package constants

import "time"

// TaskStatus represents the lifecycle state of a calendar task
type TaskStatus string

// TaskType represents the kind of study plan a task belongs to
type TaskType string

// TaskSource represents how a task entered the calendar
type TaskSource string

// PlanTier represents the subscription tier of the local profile
type PlanTier string

const (
	AppName           = "planrise"
	DefaultConfigPath = "~/.config/planrise/planrise.json"
	Version           = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat keys monthly quota windows (YYYY-MM)
	MonthFormat = "2006-01"

	// ExamPrepLeadDays is the pre-exam window excluded from exam_prep allocations
	ExamPrepLeadDays = 3

	// RebalanceDayCeiling bounds the repack walk; exceeding it means the
	// profile has no usable capacity anywhere (roughly ten years of days)
	RebalanceDayCeiling = 3660

	// Buffer ratio clamp bounds
	MinBufferRatio = 0.05
	MaxBufferRatio = 0.40

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "planrise-"

	// Reminder agent constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	AgentLockfileName      = "planrise-agent.lock"
	NotificationDurationMs = 5000
	AgentProcessPrefix     = "planrise-agent"

	// Task Status constants
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusMissed  TaskStatus = "missed"

	// Task Type constants
	TaskTypeGeneric  TaskType = "generic"
	TaskTypeExamPrep TaskType = "exam_prep"

	// Task Source constants
	TaskSourcePlan   TaskSource = "plan"
	TaskSourceManual TaskSource = "manual"

	// Plan Tier constants
	TierFree       PlanTier = "free"
	TierProMonthly PlanTier = "pro_monthly"
	TierProYearly  PlanTier = "pro_yearly"
)
