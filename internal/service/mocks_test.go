package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ruvim24/task-tracker-api/internal/model"
	"github.com/ruvim24/task-tracker-api/internal/repo"
)

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Get(ctx context.Context, id int64) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, filter model.TaskFilter, limit int) ([]model.Task, error) {
	args := m.Called(ctx, filter, limit)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) SetStatus(ctx context.Context, id int64, status string) (model.Task, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) AssignUser(ctx context.Context, id, userID int64) (model.Task, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) SaveIdempotencyKey(ctx context.Context, key string, resourceID int64) error {
	args := m.Called(ctx, key, resourceID)
	return args.Error(0)
}

func (m *MockTaskRepository) GetIdempotencyKey(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) GetStats(ctx context.Context) (repo.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(repo.Stats), args.Error(1)
}

// MockTimeLogRepository - мок хранилища тайм-логов
type MockTimeLogRepository struct {
	mock.Mock
}

func (m *MockTimeLogRepository) InsertOpen(ctx context.Context, taskID int64) (model.TimeLog, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(model.TimeLog), args.Error(1)
}

func (m *MockTimeLogRepository) CloseOpen(ctx context.Context, taskID int64) (model.TimeLog, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(model.TimeLog), args.Error(1)
}

func (m *MockTimeLogRepository) InsertClosed(ctx context.Context, taskID int64, start, end time.Time, duration int64) (model.TimeLog, error) {
	args := m.Called(ctx, taskID, start, end, duration)
	return args.Get(0).(model.TimeLog), args.Error(1)
}

func (m *MockTimeLogRepository) ListByTask(ctx context.Context, taskID int64) ([]model.TimeLog, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]model.TimeLog), args.Error(1)
}

func (m *MockTimeLogRepository) SumDurations(ctx context.Context, taskID int64) (int64, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTimeLogRepository) SumDurationsForUser(ctx context.Context, userID int64, from, to time.Time) (int64, int, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(int64), args.Get(1).(int), args.Error(2)
}

func (m *MockTimeLogRepository) SumDurationsByTask(ctx context.Context, filter model.DurationFilter) ([]model.TaskDuration, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.TaskDuration), args.Error(1)
}

// MockCommentRepository - мок репозитория комментариев
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, c model.Comment) (model.Comment, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(model.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByTask(ctx context.Context, taskID int64) ([]model.Comment, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]model.Comment), args.Error(1)
}

// MockAttachmentRepository - мок репозитория вложений
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) Create(ctx context.Context, a model.Attachment) (model.Attachment, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(model.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) ListByTask(ctx context.Context, taskID int64) ([]model.Attachment, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) MarkUploaded(ctx context.Context, objectKey, fileURL string) (model.Attachment, error) {
	args := m.Called(ctx, objectKey, fileURL)
	return args.Get(0).(model.Attachment), args.Error(1)
}

// MockUserRepository - мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) Get(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

// MockPresigner - мок выдачи подписанных URL
type MockPresigner struct {
	mock.Mock
}

func (m *MockPresigner) PresignedPut(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockPresigner) PublicURL(objectKey string) string {
	args := m.Called(objectKey)
	return args.String(0)
}
