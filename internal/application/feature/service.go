package feature

import (
	"context"
	"fmt"
	"time"

	"github.com/tasktrack-api/internal/domain"
	"github.com/tasktrack-api/internal/pkg/id"
	"github.com/tasktrack-api/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context) ([]domain.Feature, error)
	Get(ctx context.Context, featureID string) (*domain.Feature, error)
	Create(ctx context.Context, userID string, input domain.FeatureInput) (*domain.Feature, error)
	Update(ctx context.Context, userID, featureID string, input domain.FeatureInput) (*domain.Feature, error)
	Vote(ctx context.Context, featureID string) (*domain.Feature, error)
	Delete(ctx context.Context, userID, featureID string) error
}

type featureStore interface {
	Put(ctx context.Context, f *domain.Feature) error
	Get(ctx context.Context, featureID string) (*domain.Feature, error)
	List(ctx context.Context) ([]domain.Feature, error)
	Update(ctx context.Context, featureID string, updates map[string]interface{}) error
	Delete(ctx context.Context, featureID string) error
}

type service struct {
	repo featureStore
}

func NewService(repo featureStore) Service {
	return &service{repo: repo}
}

// List and Get are public; any authenticated user can browse requests.
func (s *service) List(ctx context.Context) ([]domain.Feature, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, featureID string) (*domain.Feature, error) {
	return s.repo.Get(ctx, featureID)
}

func (s *service) Create(ctx context.Context, userID string, input domain.FeatureInput) (*domain.Feature, error) {
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	f := &domain.Feature{
		FeatureID:   id.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Votes:       1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Update is owner-only, like Delete.
func (s *service) Update(ctx context.Context, userID, featureID string, input domain.FeatureInput) (*domain.Feature, error) {
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}
	f, err := s.repo.Get(ctx, featureID)
	if err != nil {
		return nil, err
	}
	if f.UserID != userID {
		return nil, fmt.Errorf("feature request belongs to another user: %w", domain.ErrForbidden)
	}
	err = s.repo.Update(ctx, featureID, map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, featureID)
}

func (s *service) Vote(ctx context.Context, featureID string) (*domain.Feature, error) {
	f, err := s.repo.Get(ctx, featureID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, featureID, map[string]interface{}{"votes": f.Votes + 1}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, featureID)
}

// Delete stays owner-only even though reads are public.
func (s *service) Delete(ctx context.Context, userID, featureID string) error {
	f, err := s.repo.Get(ctx, featureID)
	if err != nil {
		return err
	}
	if f.UserID != userID {
		return fmt.Errorf("feature request belongs to another user: %w", domain.ErrForbidden)
	}
	return s.repo.Delete(ctx, featureID)
}
