package ticket

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tasktrack-api/internal/domain"
	"github.com/tasktrack-api/internal/pkg/id"
	"github.com/tasktrack-api/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context, userID string) ([]domain.Ticket, error)
	Get(ctx context.Context, userID, ticketID string) (*domain.Ticket, error)
	Create(ctx context.Context, userID string, input domain.TicketInput) (*domain.Ticket, error)
	Update(ctx context.Context, userID, ticketID string, input domain.TicketInput) (*domain.Ticket, error)
	Delete(ctx context.Context, userID, ticketID string) error
	AttachFile(ctx context.Context, userID, ticketID, filename, contentType string, r io.Reader) (*domain.Ticket, error)
	DownloadAttachment(ctx context.Context, userID, ticketID string) (io.ReadCloser, error)
	RemoveAttachment(ctx context.Context, userID, ticketID string) error
}

type ticketStore interface {
	Put(ctx context.Context, t *domain.Ticket) error
	Get(ctx context.Context, ticketID string) (*domain.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
	Update(ctx context.Context, ticketID string, updates map[string]interface{}) error
	Delete(ctx context.Context, ticketID string) error
}

type blobStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo  ticketStore
	blobs blobStore
}

func NewService(repo ticketStore, blobs blobStore) Service {
	return &service{repo: repo, blobs: blobs}
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	return s.owned(ctx, userID, ticketID)
}

func (s *service) Create(ctx context.Context, userID string, input domain.TicketInput) (*domain.Ticket, error) {
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = domain.TicketStatusOpen
	}
	now := time.Now().UTC()
	t := &domain.Ticket{
		TicketID:  id.New(),
		UserID:    userID,
		Subject:   input.Subject,
		Body:      input.Body,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, userID, ticketID string, input domain.TicketInput) (*domain.Ticket, error) {
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, ticketID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"subject": input.Subject,
		"body":    input.Body,
	}
	if input.Status != "" {
		updates["status"] = input.Status
	}
	if err := s.repo.Update(ctx, ticketID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, ticketID)
}

func (s *service) Delete(ctx context.Context, userID, ticketID string) error {
	t, err := s.owned(ctx, userID, ticketID)
	if err != nil {
		return err
	}
	// Best effort on the blob; the record is the source of truth.
	if t.AttachmentKey != "" {
		_ = s.blobs.Delete(ctx, t.AttachmentKey)
	}
	return s.repo.Delete(ctx, ticketID)
}

func (s *service) AttachFile(ctx context.Context, userID, ticketID, filename, contentType string, r io.Reader) (*domain.Ticket, error) {
	t, err := s.owned(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("tickets/%s/%s", ticketID, filename)
	if _, err := s.blobs.Upload(ctx, key, r, contentType); err != nil {
		return nil, err
	}
	if t.AttachmentKey != "" && t.AttachmentKey != key {
		_ = s.blobs.Delete(ctx, t.AttachmentKey)
	}
	if err := s.repo.Update(ctx, ticketID, map[string]interface{}{"attachment_key": key}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, ticketID)
}

func (s *service) DownloadAttachment(ctx context.Context, userID, ticketID string) (io.ReadCloser, error) {
	t, err := s.owned(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}
	if t.AttachmentKey == "" {
		return nil, fmt.Errorf("ticket has no attachment: %w", domain.ErrNotFound)
	}
	return s.blobs.Download(ctx, t.AttachmentKey)
}

func (s *service) RemoveAttachment(ctx context.Context, userID, ticketID string) error {
	t, err := s.owned(ctx, userID, ticketID)
	if err != nil {
		return err
	}
	if t.AttachmentKey == "" {
		return fmt.Errorf("ticket has no attachment: %w", domain.ErrNotFound)
	}
	if err := s.blobs.Delete(ctx, t.AttachmentKey); err != nil {
		return err
	}
	return s.repo.Update(ctx, ticketID, map[string]interface{}{"attachment_key": ""})
}

func (s *service) owned(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	t, err := s.repo.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, fmt.Errorf("ticket belongs to another user: %w", domain.ErrForbidden)
	}
	return t, nil
}
