package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
)

type Store struct {
	Version       int                   `json:"version"`
	Settings      models.Settings       `json:"settings"`
	Calendar      models.Calendar       `json:"calendar"`
	Plans         []models.Plan         `json:"plans"`
	Ddays         models.DdayState      `json:"ddays"`
	Quota         models.Quota          `json:"quota"`
	Subscriptions []models.Subscription `json:"subscriptions"`
}

type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	defaults := models.Settings{}
	models.ApplyDefaultSettings(&defaults)

	s.store = &Store{
		Version:  1,
		Settings: defaults,
		Calendar: models.NewCalendar(),
		Plans:    []models.Plan{},
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'planrise init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure containers are initialized
	if s.store.Calendar.Tasks == nil {
		s.store.Calendar = models.NewCalendar()
	}
	if s.store.Plans == nil {
		s.store.Plans = []models.Plan{}
	}
	models.ApplyDefaultSettings(&s.store.Settings)

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if s.store == nil {
		return models.Settings{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) GetCalendar() (models.Calendar, error) {
	if s.store == nil {
		return models.Calendar{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Calendar.Clone(), nil
}

func (s *JSONStore) ReplaceCalendar(calendar models.Calendar) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Calendar = calendar.Clone()
	return s.save()
}

func (s *JSONStore) AddTask(date string, task models.Task) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Calendar.Tasks[date] = append(s.store.Calendar.Tasks[date], task)
	return s.save()
}

func (s *JSONStore) GetTask(id string) (string, models.Task, error) {
	if s.store == nil {
		return "", models.Task{}, fmt.Errorf("storage not loaded")
	}
	for date, tasks := range s.store.Calendar.Tasks {
		for _, task := range tasks {
			if task.ID == id {
				return date, task, nil
			}
		}
	}
	return "", models.Task{}, fmt.Errorf("task not found: %s", id)
}

func (s *JSONStore) SetTaskStatus(id string, status constants.TaskStatus) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	for date, tasks := range s.store.Calendar.Tasks {
		for i, task := range tasks {
			if task.ID == id {
				s.store.Calendar.Tasks[date][i].Status = status
				return s.save()
			}
		}
	}
	return fmt.Errorf("task not found: %s", id)
}

func (s *JSONStore) UpdateTask(id string, date string, updated models.Task) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	oldDate, _, err := s.GetTask(id)
	if err != nil {
		return err
	}

	s.removeTask(oldDate, id)
	updated.ID = id
	s.store.Calendar.Tasks[date] = append(s.store.Calendar.Tasks[date], updated)
	return s.save()
}

func (s *JSONStore) DeleteTask(id string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	date, _, err := s.GetTask(id)
	if err != nil {
		return err
	}
	s.removeTask(date, id)
	return s.save()
}

func (s *JSONStore) removeTask(date, id string) {
	tasks := s.store.Calendar.Tasks[date]
	next := tasks[:0]
	for _, task := range tasks {
		if task.ID != id {
			next = append(next, task)
		}
	}
	if len(next) == 0 {
		delete(s.store.Calendar.Tasks, date)
	} else {
		s.store.Calendar.Tasks[date] = next
	}
}

func (s *JSONStore) ClearCalendar() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Calendar = models.NewCalendar()
	return s.save()
}

func (s *JSONStore) AddPlan(plan models.Plan) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Plans = append(s.store.Plans, plan)
	return s.save()
}

func (s *JSONStore) GetAllPlans() ([]models.Plan, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return append([]models.Plan(nil), s.store.Plans...), nil
}

func (s *JSONStore) DeletePlan(id string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	for i, plan := range s.store.Plans {
		if plan.ID == id {
			s.store.Plans = append(s.store.Plans[:i], s.store.Plans[i+1:]...)
			return s.save()
		}
	}
	return fmt.Errorf("plan not found: %s", id)
}

func (s *JSONStore) GetDdayState() (models.DdayState, error) {
	if s.store == nil {
		return models.DdayState{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Ddays, nil
}

func (s *JSONStore) SaveDdayState(state models.DdayState) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Ddays = state
	return s.save()
}

func (s *JSONStore) GetQuota() (models.Quota, error) {
	if s.store == nil {
		return models.Quota{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Quota, nil
}

func (s *JSONStore) SaveQuota(quota models.Quota) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Quota = quota
	return s.save()
}

func (s *JSONStore) AddSubscription(sub models.Subscription) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	for i, existing := range s.store.Subscriptions {
		if existing.Endpoint == sub.Endpoint {
			s.store.Subscriptions[i] = sub
			return s.save()
		}
	}
	s.store.Subscriptions = append(s.store.Subscriptions, sub)
	return s.save()
}

func (s *JSONStore) DeleteSubscription(endpoint string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	for i, sub := range s.store.Subscriptions {
		if sub.Endpoint == endpoint {
			s.store.Subscriptions = append(s.store.Subscriptions[:i], s.store.Subscriptions[i+1:]...)
			return s.save()
		}
	}
	return fmt.Errorf("subscription not found: %s", endpoint)
}

func (s *JSONStore) GetSubscriptions() ([]models.Subscription, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return append([]models.Subscription(nil), s.store.Subscriptions...), nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
