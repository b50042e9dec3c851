package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruvim24/task-tracker-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

const taskColumns = "id, title, description, status, user_id, version, created_at, updated_at"

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

// Create вставляет задачу и событие переиндексации одной транзакцией
func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return t, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+taskColumns+`
	`, t.Title, t.Description, t.Status, t.UserID).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return t, mapError(err)
	}

	if err := enqueueTx(ctx, tx, model.EventIndexTask, model.TaskEventPayload{TaskID: t.ID}); err != nil {
		return t, err
	}
	return t, tx.Commit(ctx)
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) List(ctx context.Context, filter model.TaskFilter, limit int) ([]model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::bigint IS NULL OR user_id = $2)
		  AND ($3::text IS NULL OR title ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')
		ORDER BY id DESC
		LIMIT $4
	`

	rows, err := r.pool.Query(ctx, query, filter.Status, filter.UserID, filter.Search, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, limit)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.Version, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update меняет задачу с проверкой версии, событие переиндексации
// уходит в outbox той же транзакцией
func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return t, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $5
		RETURNING `+taskColumns+`
	`, t.ID, t.Title, t.Description, t.Status, t.Version).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorConflict
	}
	if err != nil {
		return t, err
	}

	if err := enqueueTx(ctx, tx, model.EventIndexTask, model.TaskEventPayload{TaskID: t.ID}); err != nil {
		return t, err
	}
	return t, tx.Commit(ctx)
}

// SetStatus переводит задачу в новый статус. Перевод в completed
// дополнительно ставит почтовое событие исполнителю, все в одной транзакции.
func (r *TaskRepo) SetStatus(ctx context.Context, id int64, status string) (model.Task, error) {
	var t model.Task

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return t, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		UPDATE tasks
		SET status = $2, version = version + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns+`
	`, id, status).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, err
	}

	if status == model.StatusCompleted {
		if err := enqueueTx(ctx, tx, model.EventTaskCompleted, model.TaskEventPayload{TaskID: t.ID}); err != nil {
			return t, err
		}
	}
	if err := enqueueTx(ctx, tx, model.EventIndexTask, model.TaskEventPayload{TaskID: t.ID}); err != nil {
		return t, err
	}
	return t, tx.Commit(ctx)
}

func (r *TaskRepo) AssignUser(ctx context.Context, id, userID int64) (model.Task, error) {
	var t model.Task

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return t, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		UPDATE tasks
		SET user_id = $2, version = version + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns+`
	`, id, userID).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, mapError(err)
	}

	if err := enqueueTx(ctx, tx, model.EventTaskAssigned, model.TaskEventPayload{TaskID: t.ID}); err != nil {
		return t, err
	}
	return t, tx.Commit(ctx)
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Дочерние time_logs, comments и attachments удаляет каскад
	cmd, err := tx.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}

	if err := enqueueTx(ctx, tx, model.EventDeindexTask, model.TaskEventPayload{TaskID: id}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *TaskRepo) SaveIdempotencyKey(ctx context.Context, key string, resourceID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (key, resource_id) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`, key, resourceID)
	return err
}

func (r *TaskRepo) GetIdempotencyKey(ctx context.Context, key string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		SELECT resource_id from idempotency_keys WHERE key = $1
	`, key).Scan(&id)

	if err == pgx.ErrNoRows {
		return 0, ErrorNotFound
	}
	return id, err
}

type Stats struct {
	TotalTasks    int            `json:"total_tasks"`
	ByStatus      map[string]int `json:"by_status"`
	LoggedMinutes int64          `json:"logged_minutes"`
}

func (r *TaskRepo) GetStats(ctx context.Context) (Stats, error) {
	stats := Stats{ByStatus: make(map[string]int)}

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM tasks GROUP BY status
	`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, err
		}
		stats.ByStatus[status] = count
		stats.TotalTasks += count
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration), 0) FROM time_logs WHERE duration IS NOT NULL
	`).Scan(&stats.LoggedMinutes)
	return stats, err
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return ErrorConflict
		case "23503": // foreign_key_violation
			return ErrorNotFound
		}
	}
	return err
}
