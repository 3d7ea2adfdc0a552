package service_test

import (
	"context"
	"errors"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"
	"taskManager/internal/repository/inmemory"
	"taskManager/internal/service"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskRepository is a testify mock of service.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, ownerID uuid.UUID, filter task.Filter) ([]*task.Task, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) CountByStatus(ctx context.Context, ownerID uuid.UUID, status task.Status) (int, error) {
	args := m.Called(ctx, ownerID, status)
	return args.Int(0), args.Error(1)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

func seededService(t *testing.T) (*service.TaskService, uuid.UUID) {
	t.Helper()
	store := inmemory.New()
	u := &user.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return service.NewTaskService(store), u.ID
}

func requireCode(t *testing.T, err error, code string) *service.BusinessError {
	t.Helper()
	be, ok := service.AsBusinessError(err)
	require.True(t, ok, "expected BusinessError, got %v", err)
	assert.Equal(t, code, be.Code)
	return be
}

func TestTaskService_HealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockTaskRepository)
		expectError bool
	}{
		{
			name: "success - health check passes",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
		},
		{
			name: "error - health check fails",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("db connection failed"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(mockRepo)
			err := svc.HealthCheck(context.Background())

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()
	svc, owner := seededService(t)

	tests := []struct {
		name      string
		title     string
		wantCode  string
		wantMsg   string
		wantTitle string
	}{
		{name: "success", title: "Buy milk", wantTitle: "Buy milk"},
		{name: "success - trimmed", title: "  Buy milk  ", wantTitle: "Buy milk"},
		{name: "error - empty", title: "", wantCode: service.CodeValidation, wantMsg: "Task title cannot be empty"},
		{name: "error - blank", title: "   ", wantCode: service.CodeValidation, wantMsg: "Task title cannot be empty"},
		{name: "error - too long", title: string(make([]byte, 201)), wantCode: service.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := svc.CreateTask(ctx, owner, tt.title, nil)
			if tt.wantCode != "" {
				be := requireCode(t, err, tt.wantCode)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, be.Message)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, created.Title)
			assert.Equal(t, task.StatusActive, created.Status)
			assert.Equal(t, owner, created.UserID)
			assert.NotEqual(t, uuid.Nil, created.ID)
		})
	}
}

func TestTaskService_CreateTask_UnknownOwner(t *testing.T) {
	svc := service.NewTaskService(inmemory.New())
	_, err := svc.CreateTask(context.Background(), uuid.New(), "x", nil)
	requireCode(t, err, service.CodeNotFound)
}

func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()
	svc, owner := seededService(t)

	a, err := svc.CreateTask(ctx, owner, "Buy milk", nil)
	require.NoError(t, err)
	b, err := svc.CreateTask(ctx, owner, "Pay rent", nil)
	require.NoError(t, err)
	_, err = svc.UpdateTask(ctx, owner, a.ID, task.WithStatus(task.StatusDone))
	require.NoError(t, err)

	all, err := svc.ListTasks(ctx, owner, "all", "")
	require.NoError(t, err)
	require.Len(t, all.Tasks, 2)
	assert.Equal(t, b.ID, all.Tasks[0].ID)
	assert.Equal(t, 1, all.RemainingCount)

	done, err := svc.ListTasks(ctx, owner, "done", "")
	require.NoError(t, err)
	require.Len(t, done.Tasks, 1)
	assert.Equal(t, a.ID, done.Tasks[0].ID)
	assert.Equal(t, 1, done.RemainingCount, "remaining count ignores the filter")

	search, err := svc.ListTasks(ctx, owner, "", "RENT")
	require.NoError(t, err)
	require.Len(t, search.Tasks, 1)
	assert.Equal(t, b.ID, search.Tasks[0].ID)

	_, err = svc.ListTasks(ctx, owner, "archived", "")
	requireCode(t, err, service.CodeValidation)
}

func TestTaskService_ListTasks_Unavailable(t *testing.T) {
	owner := uuid.New()
	mockRepo := new(MockTaskRepository)
	mockRepo.On("List", mock.Anything, owner, mock.Anything).Return(nil, repo.ErrUnavailable)
	mockRepo.On("CountByStatus", mock.Anything, owner, task.StatusActive).Return(0, nil).Maybe()

	_, err := service.NewTaskService(mockRepo).ListTasks(context.Background(), owner, "", "")
	requireCode(t, err, service.CodeUnavailable)
}

func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	svc, owner := seededService(t)
	created, err := svc.CreateTask(ctx, owner, "draft", nil)
	require.NoError(t, err)
	deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	updated, err := svc.UpdateTask(ctx, owner, created.ID,
		task.WithTitle("  final "),
		task.WithCompleted(true),
		task.WithDeadline(&deadline))
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.True(t, updated.Completed())
	require.NotNil(t, updated.Deadline)

	// an empty update leaves the task as it was
	same, err := svc.UpdateTask(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", same.Title)

	_, err = svc.UpdateTask(ctx, owner, created.ID, task.WithTitle(""))
	be := requireCode(t, err, service.CodeValidation)
	assert.Equal(t, "title", be.Details["field"])

	_, err = svc.UpdateTask(ctx, owner, created.ID, task.WithStatus("archived"))
	be = requireCode(t, err, service.CodeValidation)
	assert.Equal(t, "status", be.Details["field"])

	_, err = svc.UpdateTask(ctx, uuid.New(), created.ID, task.WithTitle("stolen"))
	requireCode(t, err, service.CodeNotFound)

	_, err = svc.UpdateTask(ctx, owner, uuid.New(), task.WithTitle("missing"))
	requireCode(t, err, service.CodeNotFound)
}

func TestTaskService_UpdateTask_RepositoryFailure(t *testing.T) {
	owner, id := uuid.New(), uuid.New()
	mockRepo := new(MockTaskRepository)
	mockRepo.On("GetByID", mock.Anything, owner, id).
		Return(&task.Task{ID: id, UserID: owner, Title: "a", Status: task.StatusActive}, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(t *task.Task) bool {
		return t.Status == task.StatusDone
	})).Return(errors.New("boom"))

	_, err := service.NewTaskService(mockRepo).UpdateTask(context.Background(), owner, id, task.WithCompleted(true))
	require.Error(t, err)
	_, isBusiness := service.AsBusinessError(err)
	assert.False(t, isBusiness)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	svc, owner := seededService(t)
	created, err := svc.CreateTask(ctx, owner, "temp", nil)
	require.NoError(t, err)

	err = svc.DeleteTask(ctx, uuid.New(), created.ID)
	requireCode(t, err, service.CodeNotFound)

	require.NoError(t, svc.DeleteTask(ctx, owner, created.ID))

	err = svc.DeleteTask(ctx, owner, created.ID)
	be := requireCode(t, err, service.CodeNotFound)
	assert.Equal(t, "Task not found", be.Message)
}
