package domain

import "time"

// Task statuses form a fixed progression; anything else is rejected at input.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

type Task struct {
	TaskID      string     `json:"id" dynamodbav:"task_id"`
	UserID      string     `json:"user_id" dynamodbav:"user_id"`
	ProjectID   string     `json:"project_id,omitempty" dynamodbav:"project_id"`
	CategoryID  string     `json:"category_id,omitempty" dynamodbav:"category_id"`
	Title       string     `json:"title" dynamodbav:"title"`
	Description string     `json:"description,omitempty" dynamodbav:"description"`
	Status      string     `json:"status" dynamodbav:"status"`
	DueDate     *time.Time `json:"due_date,omitempty" dynamodbav:"due_date"`
	MinutesSpent int       `json:"minutes_spent" dynamodbav:"minutes_spent"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type TaskInput struct {
	ProjectID   string `json:"project_id"`
	CategoryID  string `json:"category_id"`
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	DueDate     string `json:"due_date"` // expected format: YYYY-MM-DD
	MinutesSpent *int  `json:"minutes_spent" validate:"omitempty,min=0"`
}

// TaskSummary aggregates the authenticated user's tasks by status for the
// dashboard chart.
type TaskSummary struct {
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Total      int `json:"total"`
}
