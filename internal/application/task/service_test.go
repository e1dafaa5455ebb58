package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack-api/internal/domain"
)

type mockTaskStore struct{ mock.Mock }

func (m *mockTaskStore) Put(ctx context.Context, t *domain.Task) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockTaskStore) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	if t, _ := args.Get(0).(*domain.Task); t != nil {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTaskStore) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	args := m.Called(ctx, userID)
	if ts, _ := args.Get(0).([]domain.Task); ts != nil {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTaskStore) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	args := m.Called(ctx, projectID)
	if ts, _ := args.Get(0).([]domain.Task); ts != nil {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTaskStore) Update(ctx context.Context, taskID string, updates map[string]interface{}) error {
	return m.Called(ctx, taskID, updates).Error(0)
}
func (m *mockTaskStore) Delete(ctx context.Context, taskID string) error {
	return m.Called(ctx, taskID).Error(0)
}

func TestGet_OtherUsersTask(t *testing.T) {
	repo := &mockTaskStore{}
	repo.On("Get", mock.Anything, "t1").Return(&domain.Task{TaskID: "t1", UserID: "owner"}, nil)

	svc := NewService(repo)
	_, err := svc.Get(context.Background(), "intruder", "t1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestDelete_OtherUsersTask_NotDeleted(t *testing.T) {
	repo := &mockTaskStore{}
	repo.On("Get", mock.Anything, "t1").Return(&domain.Task{TaskID: "t1", UserID: "owner"}, nil)

	svc := NewService(repo)
	err := svc.Delete(context.Background(), "intruder", "t1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGet_MissingTask(t *testing.T) {
	repo := &mockTaskStore{}
	repo.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := NewService(repo)
	_, err := svc.Get(context.Background(), "u1", "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreate_DefaultsToTodo(t *testing.T) {
	repo := &mockTaskStore{}
	var stored *domain.Task
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Task")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Task) }).
		Return(nil)

	svc := NewService(repo)
	created, err := svc.Create(context.Background(), "u1", domain.TaskInput{Title: "write report"})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.TaskStatusTodo, created.Status)
	assert.Equal(t, "u1", stored.UserID)
	assert.NotEmpty(t, stored.TaskID)
}

func TestCreate_BadStatus(t *testing.T) {
	svc := NewService(&mockTaskStore{})
	_, err := svc.Create(context.Background(), "u1", domain.TaskInput{Title: "x", Status: "blocked"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestCreate_BadDueDate(t *testing.T) {
	svc := NewService(&mockTaskStore{})
	_, err := svc.Create(context.Background(), "u1", domain.TaskInput{Title: "x", DueDate: "31-12-2026"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestListByProject_FiltersOtherOwners(t *testing.T) {
	repo := &mockTaskStore{}
	repo.On("ListByProject", mock.Anything, "p1").Return([]domain.Task{
		{TaskID: "t1", UserID: "u1"},
		{TaskID: "t2", UserID: "u2"},
		{TaskID: "t3", UserID: "u1"},
	}, nil)

	svc := NewService(repo)
	tasks, err := svc.ListByProject(context.Background(), "u1", "p1")

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t1", tasks[0].TaskID)
	assert.Equal(t, "t3", tasks[1].TaskID)
}

func TestSummary_CountsByStatus(t *testing.T) {
	repo := &mockTaskStore{}
	repo.On("ListByUser", mock.Anything, "u1").Return([]domain.Task{
		{Status: domain.TaskStatusTodo},
		{Status: domain.TaskStatusTodo},
		{Status: domain.TaskStatusInProgress},
		{Status: domain.TaskStatusDone},
	}, nil)

	svc := NewService(repo)
	sum, err := svc.Summary(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 2, sum.Todo)
	assert.Equal(t, 1, sum.InProgress)
	assert.Equal(t, 1, sum.Done)
	assert.Equal(t, 4, sum.Total)
}
