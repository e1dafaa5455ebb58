package task

import (
	"context"
	"fmt"
	"time"

	"github.com/tasktrack-api/internal/domain"
	"github.com/tasktrack-api/internal/pkg/id"
	"github.com/tasktrack-api/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context, userID string) ([]domain.Task, error)
	ListByProject(ctx context.Context, userID, projectID string) ([]domain.Task, error)
	Get(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Create(ctx context.Context, userID string, input domain.TaskInput) (*domain.Task, error)
	Update(ctx context.Context, userID, taskID string, input domain.TaskInput) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
	Summary(ctx context.Context, userID string) (*domain.TaskSummary, error)
}

type taskStore interface {
	Put(ctx context.Context, t *domain.Task) error
	Get(ctx context.Context, taskID string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	Update(ctx context.Context, taskID string, updates map[string]interface{}) error
	Delete(ctx context.Context, taskID string) error
}

type service struct {
	repo taskStore
}

func NewService(repo taskStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListByProject queries the project index, then filters on owner: a project id
// is guessable, its tasks are not public.
func (s *service) ListByProject(ctx context.Context, userID, projectID string) ([]domain.Task, error) {
	all, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(all))
	for _, t := range all {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *service) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.owned(ctx, userID, taskID)
}

func (s *service) Create(ctx context.Context, userID string, input domain.TaskInput) (*domain.Task, error) {
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}
	due, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = domain.TaskStatusTodo
	}
	minutes := 0
	if input.MinutesSpent != nil {
		minutes = *input.MinutesSpent
	}
	now := time.Now().UTC()
	t := &domain.Task{
		TaskID:       id.New(),
		UserID:       userID,
		ProjectID:    input.ProjectID,
		CategoryID:   input.CategoryID,
		Title:        input.Title,
		Description:  input.Description,
		Status:       status,
		DueDate:      due,
		MinutesSpent: minutes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, userID, taskID string, input domain.TaskInput) (*domain.Task, error) {
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, taskID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
	}
	if input.Status != "" {
		updates["status"] = input.Status
	}
	if input.ProjectID != "" {
		updates["project_id"] = input.ProjectID
	}
	if input.CategoryID != "" {
		updates["category_id"] = input.CategoryID
	}
	if input.MinutesSpent != nil {
		updates["minutes_spent"] = *input.MinutesSpent
	}
	if input.DueDate != "" {
		due, err := parseDueDate(input.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = due.Format(time.RFC3339)
	}
	if err := s.repo.Update(ctx, taskID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, taskID)
}

func (s *service) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := s.owned(ctx, userID, taskID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, taskID)
}

func (s *service) Summary(ctx context.Context, userID string) (*domain.TaskSummary, error) {
	tasks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum := &domain.TaskSummary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskStatusTodo:
			sum.Todo++
		case domain.TaskStatusInProgress:
			sum.InProgress++
		case domain.TaskStatusDone:
			sum.Done++
		}
	}
	return sum, nil
}

func (s *service) owned(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	t, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, fmt.Errorf("task belongs to another user: %w", domain.ErrForbidden)
	}
	return t, nil
}

func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("due_date must be YYYY-MM-DD: %w", domain.ErrValidation)
	}
	return &t, nil
}
