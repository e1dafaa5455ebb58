package project

import (
	"context"
	"fmt"
	"time"

	"github.com/tasktrack-api/internal/domain"
	"github.com/tasktrack-api/internal/pkg/id"
	"github.com/tasktrack-api/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context, userID string) ([]domain.Project, error)
	Get(ctx context.Context, userID, projectID string) (*domain.Project, error)
	Create(ctx context.Context, userID string, input domain.ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, userID, projectID string, input domain.ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, userID, projectID string) error
}

type projectStore interface {
	Put(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, projectID string) (*domain.Project, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Project, error)
	Update(ctx context.Context, projectID string, updates map[string]interface{}) error
	Delete(ctx context.Context, projectID string) error
}

type service struct {
	repo projectStore
}

func NewService(repo projectStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	return s.owned(ctx, userID, projectID)
}

func (s *service) Create(ctx context.Context, userID string, input domain.ProjectInput) (*domain.Project, error) {
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(input.Deadline)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &domain.Project{
		ProjectID:   id.New(),
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, userID, projectID string, input domain.ProjectInput) (*domain.Project, error) {
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, projectID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
	}
	if input.Deadline != "" {
		deadline, err := parseDeadline(input.Deadline)
		if err != nil {
			return nil, err
		}
		updates["deadline"] = deadline.Format(time.RFC3339)
	}
	if err := s.repo.Update(ctx, projectID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, projectID)
}

func (s *service) Delete(ctx context.Context, userID, projectID string) error {
	if _, err := s.owned(ctx, userID, projectID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, projectID)
}

func (s *service) owned(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, fmt.Errorf("project belongs to another user: %w", domain.ErrForbidden)
	}
	return p, nil
}

func parseDeadline(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("deadline must be YYYY-MM-DD: %w", domain.ErrValidation)
	}
	return &t, nil
}
