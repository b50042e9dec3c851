package repo

import (
	"context"
	"time"

	"github.com/ruvim24/task-tracker-api/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context, filter model.TaskFilter, limit int) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	SetStatus(ctx context.Context, id int64, status string) (model.Task, error)
	AssignUser(ctx context.Context, id, userID int64) (model.Task, error)
	Delete(ctx context.Context, id int64) error
	SaveIdempotencyKey(ctx context.Context, key string, resourceID int64) error
	GetIdempotencyKey(ctx context.Context, key string) (int64, error)
	GetStats(ctx context.Context) (Stats, error)
}

// TimeLogRepository определяет интерфейс хранилища тайм-логов.
// Инвариант "один открытый таймер на задачу" держит частичный
// уникальный индекс ux_time_logs_one_open.
type TimeLogRepository interface {
	InsertOpen(ctx context.Context, taskID int64) (model.TimeLog, error)
	CloseOpen(ctx context.Context, taskID int64) (model.TimeLog, error)
	InsertClosed(ctx context.Context, taskID int64, start, end time.Time, duration int64) (model.TimeLog, error)
	ListByTask(ctx context.Context, taskID int64) ([]model.TimeLog, error)
	SumDurations(ctx context.Context, taskID int64) (int64, error)
	SumDurationsForUser(ctx context.Context, userID int64, from, to time.Time) (int64, int, error)
	SumDurationsByTask(ctx context.Context, filter model.DurationFilter) ([]model.TaskDuration, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c model.Comment) (model.Comment, error)
	ListByTask(ctx context.Context, taskID int64) ([]model.Comment, error)
}

type AttachmentRepository interface {
	Create(ctx context.Context, a model.Attachment) (model.Attachment, error)
	ListByTask(ctx context.Context, taskID int64) ([]model.Attachment, error)
	MarkUploaded(ctx context.Context, objectKey, fileURL string) (model.Attachment, error)
}

type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	Get(ctx context.Context, id int64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// NotificationRepository - транзакционный outbox для side-эффектов
type NotificationRepository interface {
	Enqueue(ctx context.Context, kind string, payload any) error
	Claim(ctx context.Context) (model.Notification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}
