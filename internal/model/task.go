package model

import "time"

// Статусы задачи
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusArchived   = "archived"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled, StatusArchived:
		return true
	}
	return false
}

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	UserID      *int64    `json:"user_id,omitempty"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskDetail - задача с комментариями для детального ответа API
type TaskDetail struct {
	Task
	Comments []Comment `json:"comments"`
}

type TaskFilter struct {
	Status *string
	UserID *int64
	Search *string // поиск по title и description
}
