package repo

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruvim24/task-tracker-api/internal/model"
)

type NotificationRepo struct { // Outbox для почтовых и индексных событий
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{
		pool: pool,
	}
}

func (r *NotificationRepo) Enqueue(ctx context.Context, kind string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications (kind, payload) VALUES ($1, $2)
	`, kind, body)
	return err
}

// enqueueTx пишет событие в outbox той же транзакцией, что и мутация.
// Коммитятся либо обе строки, либо ни одной - событие не теряется
// между изменением данных и постановкой в очередь.
func enqueueTx(ctx context.Context, tx pgx.Tx, kind string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO notifications (kind, payload) VALUES ($1, $2)
	`, kind, body)
	return err
}

// Claim забирает одно pending-событие. FOR UPDATE SKIP LOCKED не дает
// двум воркерам взять одну и ту же строку.
func (r *NotificationRepo) Claim(ctx context.Context) (model.Notification, error) {
	var n model.Notification
	err := r.pool.QueryRow(ctx, `
		WITH claimed AS (
			SELECT id
			FROM notifications
			WHERE status = 'pending'
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		UPDATE notifications
		SET status = 'processing'
		FROM claimed
		WHERE notifications.id = claimed.id
		RETURNING notifications.id, notifications.kind, notifications.payload,
		          notifications.status, notifications.error,
		          notifications.created_at, notifications.processed_at
	`).Scan(&n.ID, &n.Kind, &n.Payload, &n.Status, &n.Error, &n.CreatedAt, &n.ProcessedAt)

	if err == pgx.ErrNoRows {
		return n, ErrorNotFound
	}
	return n, err
}

func (r *NotificationRepo) MarkSent(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET status = 'sent', processed_at = now() WHERE id = $1
	`, id)
	return err
}

// MarkFailed фиксирует причину; повторных попыток нет, строка остается для разбора
func (r *NotificationRepo) MarkFailed(ctx context.Context, id int64, reason string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET status = 'failed', error = $2, processed_at = now() WHERE id = $1
	`, id, reason)
	return err
}
