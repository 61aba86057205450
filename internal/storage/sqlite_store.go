package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}
	if err := s.migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize default settings if not present
	settings, err := s.GetSettings()
	if err != nil || settings.WeekdayMinutes == nil {
		defaults := models.Settings{}
		models.ApplyDefaultSettings(&defaults)
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'planrise init' first")
	}

	if err := s.open(); err != nil {
		return err
	}
	return s.migrate()
}

// GetDB exposes the underlying connection for health checks.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) open() error {
	db, err := sql.Open("sqlite", s.path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS tasks (
		id        TEXT PRIMARY KEY,
		date      TEXT NOT NULL,
		title     TEXT NOT NULL,
		minutes   INTEGER NOT NULL,
		pages     TEXT,
		task_type TEXT,
		status    TEXT NOT NULL,
		source    TEXT NOT NULL,
		position  INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date);
	CREATE TABLE IF NOT EXISTS plans (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		subject    TEXT,
		task_type  TEXT,
		due_date   TEXT,
		notes      TEXT,
		source     TEXT,
		created_at TEXT NOT NULL,
		schedule   TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS ddays (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		date       TEXT NOT NULL,
		color      TEXT,
		is_primary INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS quota (
		month           TEXT PRIMARY KEY,
		ai_plan_used    INTEGER NOT NULL DEFAULT 0,
		rebalance_used  INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS subscriptions (
		endpoint TEXT PRIMARY KEY,
		p256dh   TEXT,
		auth     TEXT
	);`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := tx.Exec(
			"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			key, value,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetCalendar() (models.Calendar, error) {
	rows, err := s.db.Query(`
		SELECT id, date, title, minutes, pages, task_type, status, source
		FROM tasks ORDER BY date, position`)
	if err != nil {
		return models.Calendar{}, err
	}
	defer rows.Close()

	calendar := models.NewCalendar()
	for rows.Next() {
		var task models.Task
		var date string
		var pages, taskType sql.NullString
		if err := rows.Scan(&task.ID, &date, &task.Title, &task.Minutes, &pages, &taskType, &task.Status, &task.Source); err != nil {
			return models.Calendar{}, err
		}
		task.Pages = pages.String
		task.TaskType = constants.TaskType(taskType.String)
		calendar.Tasks[date] = append(calendar.Tasks[date], task)
	}
	if err := rows.Err(); err != nil {
		return models.Calendar{}, err
	}
	return calendar, nil
}

func (s *SQLiteStore) ReplaceCalendar(calendar models.Calendar) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tasks"); err != nil {
		return err
	}
	for _, date := range calendar.SortedDates() {
		for position, task := range calendar.Tasks[date] {
			if err := insertTask(tx, date, task, position); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func insertTask(tx *sql.Tx, date string, task models.Task, position int) error {
	_, err := tx.Exec(`
		INSERT INTO tasks (id, date, title, minutes, pages, task_type, status, source, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, date, task.Title, task.Minutes, task.Pages, string(task.TaskType), string(task.Status), string(task.Source), position)
	return err
}

func (s *SQLiteStore) AddTask(date string, task models.Task) error {
	var position int
	if err := s.db.QueryRow(
		"SELECT COALESCE(MAX(position)+1, 0) FROM tasks WHERE date = ?", date,
	).Scan(&position); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO tasks (id, date, title, minutes, pages, task_type, status, source, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, date, task.Title, task.Minutes, task.Pages, string(task.TaskType), string(task.Status), string(task.Source), position)
	return err
}

func (s *SQLiteStore) GetTask(id string) (string, models.Task, error) {
	row := s.db.QueryRow(`
		SELECT id, date, title, minutes, pages, task_type, status, source
		FROM tasks WHERE id = ?`, id)

	var task models.Task
	var date string
	var pages, taskType sql.NullString
	err := row.Scan(&task.ID, &date, &task.Title, &task.Minutes, &pages, &taskType, &task.Status, &task.Source)
	if err == sql.ErrNoRows {
		return "", models.Task{}, fmt.Errorf("task not found: %s", id)
	}
	if err != nil {
		return "", models.Task{}, err
	}
	task.Pages = pages.String
	task.TaskType = constants.TaskType(taskType.String)
	return date, task, nil
}

func (s *SQLiteStore) SetTaskStatus(id string, status constants.TaskStatus) error {
	result, err := s.db.Exec("UPDATE tasks SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task not found: %s", id)
	}
	return nil
}

func (s *SQLiteStore) UpdateTask(id string, date string, task models.Task) error {
	result, err := s.db.Exec(`
		UPDATE tasks SET date = ?, title = ?, minutes = ?, pages = ?, task_type = ?, status = ?, source = ?
		WHERE id = ?`,
		date, task.Title, task.Minutes, task.Pages, string(task.TaskType), string(task.Status), string(task.Source), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task not found: %s", id)
	}
	return nil
}

func (s *SQLiteStore) DeleteTask(id string) error {
	result, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task not found: %s", id)
	}
	return nil
}

func (s *SQLiteStore) ClearCalendar() error {
	_, err := s.db.Exec("DELETE FROM tasks")
	return err
}

func (s *SQLiteStore) AddPlan(plan models.Plan) error {
	schedule, err := json.Marshal(plan.Schedule)
	if err != nil {
		return fmt.Errorf("failed to serialize schedule: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO plans (id, name, subject, task_type, due_date, notes, source, created_at, schedule)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.Name, plan.Subject, string(plan.TaskType), plan.DueDate, plan.Notes, plan.Source, plan.CreatedAt, string(schedule))
	return err
}

func (s *SQLiteStore) GetAllPlans() ([]models.Plan, error) {
	rows, err := s.db.Query(`
		SELECT id, name, subject, task_type, due_date, notes, source, created_at, schedule
		FROM plans ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.Plan
	for rows.Next() {
		var plan models.Plan
		var taskType, schedule string
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.Subject, &taskType, &plan.DueDate, &plan.Notes, &plan.Source, &plan.CreatedAt, &schedule); err != nil {
			return nil, err
		}
		plan.TaskType = constants.TaskType(taskType)
		if err := json.Unmarshal([]byte(schedule), &plan.Schedule); err != nil {
			return nil, fmt.Errorf("failed to parse schedule for plan %s: %w", plan.ID, err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (s *SQLiteStore) DeletePlan(id string) error {
	result, err := s.db.Exec("DELETE FROM plans WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("plan not found: %s", id)
	}
	return nil
}

func (s *SQLiteStore) GetDdayState() (models.DdayState, error) {
	rows, err := s.db.Query("SELECT id, title, date, color, is_primary FROM ddays ORDER BY date")
	if err != nil {
		return models.DdayState{}, err
	}
	defer rows.Close()

	var state models.DdayState
	for rows.Next() {
		var item models.Dday
		var color sql.NullString
		var isPrimary bool
		if err := rows.Scan(&item.ID, &item.Title, &item.Date, &color, &isPrimary); err != nil {
			return models.DdayState{}, err
		}
		item.Color = color.String
		if isPrimary {
			state.PrimaryID = item.ID
		}
		state.Items = append(state.Items, item)
	}
	return state, rows.Err()
}

func (s *SQLiteStore) SaveDdayState(state models.DdayState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM ddays"); err != nil {
		return err
	}
	for _, item := range state.Items {
		if _, err := tx.Exec(
			"INSERT INTO ddays (id, title, date, color, is_primary) VALUES (?, ?, ?, ?, ?)",
			item.ID, item.Title, item.Date, item.Color, item.ID == state.PrimaryID,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetQuota() (models.Quota, error) {
	row := s.db.QueryRow("SELECT month, ai_plan_used, rebalance_used FROM quota LIMIT 1")

	var quota models.Quota
	err := row.Scan(&quota.Month, &quota.AIPlanUsed, &quota.RebalanceUsed)
	if err == sql.ErrNoRows {
		return models.Quota{}, nil
	}
	if err != nil {
		return models.Quota{}, err
	}
	return quota, nil
}

func (s *SQLiteStore) SaveQuota(quota models.Quota) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM quota"); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO quota (month, ai_plan_used, rebalance_used) VALUES (?, ?, ?)",
		quota.Month, quota.AIPlanUsed, quota.RebalanceUsed,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) AddSubscription(sub models.Subscription) error {
	_, err := s.db.Exec(`
		INSERT INTO subscriptions (endpoint, p256dh, auth) VALUES (?, ?, ?)
		ON CONFLICT(endpoint) DO UPDATE SET p256dh = excluded.p256dh, auth = excluded.auth`,
		sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth)
	return err
}

func (s *SQLiteStore) DeleteSubscription(endpoint string) error {
	res, err := s.db.Exec("DELETE FROM subscriptions WHERE endpoint = ?", endpoint)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("subscription not found: %s", endpoint)
	}
	return nil
}

func (s *SQLiteStore) GetSubscriptions() ([]models.Subscription, error) {
	rows, err := s.db.Query("SELECT endpoint, p256dh, auth FROM subscriptions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		var p256dh, auth sql.NullString
		if err := rows.Scan(&sub.Endpoint, &p256dh, &auth); err != nil {
			return nil, err
		}
		sub.Keys.P256dh = p256dh.String
		sub.Keys.Auth = auth.String
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
