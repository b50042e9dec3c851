package model

import (
	"encoding/json"
	"time"
)

// Виды событий в outbox. Почтовые события идут в Mailer,
// индексные - в Elasticsearch.
const (
	EventTaskCompleted = "task_completed"
	EventTaskAssigned  = "task_assigned"
	EventTaskCommented = "task_commented"
	EventIndexTask     = "index_task"
	EventDeindexTask   = "deindex_task"
)

// Статусы события
const (
	NotificationPending    = "pending"
	NotificationProcessing = "processing"
	NotificationSent       = "sent"
	NotificationFailed     = "failed"
)

type Notification struct {
	ID          int64           `json:"id"`
	Kind        string          `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Error       *string         `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
}

// TaskEventPayload - полезная нагрузка всех событий задачи
type TaskEventPayload struct {
	TaskID  int64  `json:"task_id"`
	Comment string `json:"comment,omitempty"`
}
