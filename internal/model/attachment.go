package model

import "time"

// Статусы вложения
const (
	AttachmentPending   = "pending"
	AttachmentUploaded  = "uploaded"
	AttachmentCancelled = "cancelled"
	AttachmentRemoved   = "removed"
)

type Attachment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	FileName  string    `json:"file_name"`
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	FileURL   *string   `json:"file_url,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
