package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mudler/xlog"
)

// JSONStore implements TaskStore on a single JSON file. A missing or corrupt
// file degrades to an empty task list.
type JSONStore struct {
	filePath string
	mu       sync.Mutex
	tasks    []*Task
	lastID   int64
}

func NewJSONStore(filePath string) *JSONStore {
	s := &JSONStore{filePath: filePath, tasks: []*Task{}}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.tasks); err != nil {
		xlog.Warn("Task store unreadable, starting fresh", "path", filePath, "error", err)
		s.tasks = []*Task{}
		return s
	}
	for _, t := range s.tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	return s
}

// Create assigns the next ID and persists. IDs are epoch-milli seeded and
// strictly increasing, so two tasks created in the same millisecond still get
// distinct IDs.
func (s *JSONStore) Create(task *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	task.ID = id
	task.Active = true
	task.CreatedAt = time.Now()
	s.tasks = append(s.tasks, task)
	return s.save()
}

func (s *JSONStore) Get(id int64) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("task not found: %d", id)
}

func (s *JSONStore) GetAll() ([]*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Task, len(s.tasks))
	for i, t := range s.tasks {
		copied := *t
		out[i] = &copied
	}
	return out, nil
}

func (s *JSONStore) Toggle(id int64) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID == id {
			t.Active = !t.Active
			if err := s.save(); err != nil {
				return nil, err
			}
			copied := *t
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("task not found: %d", id)
}

func (s *JSONStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return s.save()
		}
	}
	return fmt.Errorf("task not found: %d", id)
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}
	os.MkdirAll(filepath.Dir(s.filePath), 0755)
	return os.WriteFile(s.filePath, data, 0644)
}
