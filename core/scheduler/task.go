package scheduler

import "time"

// Task is a named recurring job. The scheduler only reads tasks; Active is
// flipped exclusively through the store's Toggle, never by execution.
type Task struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	When      string    `json:"when"`
	Prompt    string    `json:"task"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created"`
}

// TaskStore persists the task list. Implementations serialize access so
// concurrent handlers cannot lose updates.
type TaskStore interface {
	// Create stores task, assigning a unique monotonic ID and CreatedAt.
	Create(task *Task) error

	// Get retrieves a task by ID.
	Get(id int64) (*Task, error)

	// GetAll retrieves all tasks in creation order.
	GetAll() ([]*Task, error)

	// Toggle flips a task's Active flag and returns the updated task.
	Toggle(id int64) (*Task, error)

	// Delete removes a task.
	Delete(id int64) error
}
