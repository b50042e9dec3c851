package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruvim24/task-tracker-api/internal/model"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{
		pool: pool,
	}
}

// Create вставляет комментарий и почтовое событие исполнителю
// одной транзакцией
func (r *CommentRepo) Create(ctx context.Context, c model.Comment) (model.Comment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return c, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO comments (task_id, content)
		VALUES ($1, $2)
		RETURNING id, task_id, content, created_at
	`, c.TaskID, c.Content).Scan(&c.ID, &c.TaskID, &c.Content, &c.CreatedAt)
	if err != nil {
		return c, mapError(err)
	}

	err = enqueueTx(ctx, tx, model.EventTaskCommented, model.TaskEventPayload{
		TaskID:  c.TaskID,
		Comment: c.Content,
	})
	if err != nil {
		return c, err
	}
	return c, tx.Commit(ctx)
}

func (r *CommentRepo) ListByTask(ctx context.Context, taskID int64) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, task_id, content, created_at
		FROM comments
		WHERE task_id = $1
		ORDER BY id
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
