package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruvim24/task-tracker-api/internal/model"
)

const attachmentColumns = "id, task_id, file_name, object_key, upload_url, file_url, status, created_at, updated_at"

type AttachmentRepo struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepo(pool *pgxpool.Pool) *AttachmentRepo {
	return &AttachmentRepo{
		pool: pool,
	}
}

func (r *AttachmentRepo) Create(ctx context.Context, a model.Attachment) (model.Attachment, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO attachments (task_id, file_name, object_key, upload_url, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING `+attachmentColumns+`
	`, a.TaskID, a.FileName, a.ObjectKey, a.UploadURL).Scan(
		&a.ID, &a.TaskID, &a.FileName, &a.ObjectKey, &a.UploadURL, &a.FileURL, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, mapError(err)
}

func (r *AttachmentRepo) ListByTask(ctx context.Context, taskID int64) ([]model.Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+attachmentColumns+`
		FROM attachments
		WHERE task_id = $1
		ORDER BY id
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := make([]model.Attachment, 0)
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(&a.ID, &a.TaskID, &a.FileName, &a.ObjectKey, &a.UploadURL, &a.FileURL, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

// MarkUploaded переводит pending-вложение в uploaded по webhook от хранилища
func (r *AttachmentRepo) MarkUploaded(ctx context.Context, objectKey, fileURL string) (model.Attachment, error) {
	var a model.Attachment
	err := r.pool.QueryRow(ctx, `
		UPDATE attachments
		SET status = 'uploaded', file_url = $2, updated_at = now()
		WHERE object_key = $1 AND status = 'pending'
		RETURNING `+attachmentColumns+`
	`, objectKey, fileURL).Scan(
		&a.ID, &a.TaskID, &a.FileName, &a.ObjectKey, &a.UploadURL, &a.FileURL, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return a, ErrorNotFound
	}
	return a, err
}
