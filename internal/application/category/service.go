package category

import (
	"context"
	"fmt"
	"time"

	"github.com/tasktrack-api/internal/domain"
	"github.com/tasktrack-api/internal/pkg/id"
	"github.com/tasktrack-api/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context, userID string) ([]domain.Category, error)
	Get(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	Create(ctx context.Context, userID string, input domain.CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, userID, categoryID string, input domain.CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, userID, categoryID string) error
}

type categoryStore interface {
	Put(ctx context.Context, c *domain.Category) error
	Get(ctx context.Context, categoryID string) (*domain.Category, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Category, error)
	Update(ctx context.Context, categoryID string, updates map[string]interface{}) error
	Delete(ctx context.Context, categoryID string) error
}

type service struct {
	repo categoryStore
}

func NewService(repo categoryStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Category, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	return s.owned(ctx, userID, categoryID)
}

func (s *service) Create(ctx context.Context, userID string, input domain.CategoryInput) (*domain.Category, error) {
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &domain.Category{
		CategoryID: id.New(),
		UserID:     userID,
		Name:       input.Name,
		Color:      input.Color,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, userID, categoryID string, input domain.CategoryInput) (*domain.Category, error) {
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	err := s.repo.Update(ctx, categoryID, map[string]interface{}{
		"name":  input.Name,
		"color": input.Color,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, categoryID)
}

func (s *service) Delete(ctx context.Context, userID, categoryID string) error {
	if _, err := s.owned(ctx, userID, categoryID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, categoryID)
}

// owned fetches the category and rejects access by anyone but its creator.
func (s *service) owned(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	c, err := s.repo.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("category belongs to another user: %w", domain.ErrForbidden)
	}
	return c, nil
}
