package orchestrator

import "time"

// TaskStatus is the lifecycle state of a workflow task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// Task is one unit of work in a workflow. Dependencies reference other task
// IDs whose results may feed into this task's prompt.
type Task struct {
	ID            string     `json:"id"`
	Description   string     `json:"description"`
	AssignedAgent string     `json:"assigned_agent,omitempty"`
	Status        TaskStatus `json:"status"`
	Result        string     `json:"result,omitempty"`
	Dependencies  []string   `json:"dependencies,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   time.Time  `json:"completed_at,omitempty"`
}

// NewTask creates a pending task.
func NewTask(id, description string, dependencies ...string) *Task {
	return &Task{
		ID:           id,
		Description:  description,
		Status:       StatusPending,
		Dependencies: dependencies,
		CreatedAt:    time.Now(),
	}
}

// Completed reports whether the task finished successfully.
func (t *Task) Completed() bool { return t.Status == StatusCompleted }

// WorkflowResult aggregates the outcome of one workflow execution.
type WorkflowResult struct {
	ID             string            `json:"id"`
	Success        bool              `json:"success"`
	TasksCompleted int               `json:"tasks_completed"`
	TasksFailed    int               `json:"tasks_failed"`
	TotalTasks     int               `json:"total_tasks"`
	Results        map[string]string `json:"results"`
	Summary        string            `json:"summary"`
	Duration       time.Duration     `json:"duration"`
}
