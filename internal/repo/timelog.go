package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruvim24/task-tracker-api/internal/model"
)

const timeLogColumns = "id, task_id, start_time, end_time, duration, created_at"

type TimeLogRepo struct { // Репозиторий движка тайм-трекинга
	pool *pgxpool.Pool
}

func NewTimeLogRepo(pool *pgxpool.Pool) *TimeLogRepo { // Конструктор
	return &TimeLogRepo{
		pool: pool,
	}
}

// InsertOpen открывает таймер. Два конкурентных вызова не создадут два
// открытых лога: вторая вставка упирается в ux_time_logs_one_open,
// 23505 превращается в ErrorConflict.
func (r *TimeLogRepo) InsertOpen(ctx context.Context, taskID int64) (model.TimeLog, error) {
	var l model.TimeLog
	err := r.pool.QueryRow(ctx, `
		INSERT INTO time_logs (task_id, start_time)
		VALUES ($1, now())
		RETURNING `+timeLogColumns+`
	`, taskID).Scan(
		&l.ID, &l.TaskID, &l.StartTime, &l.EndTime, &l.Duration, &l.CreatedAt,
	)
	return l, mapError(err)
}

// CloseOpen закрывает открытый таймер одним атомарным UPDATE:
// либо лог целиком закрыт, либо не тронут. Отрицательная длительность
// при сдвиге часов зажимается в ноль.
func (r *TimeLogRepo) CloseOpen(ctx context.Context, taskID int64) (model.TimeLog, error) {
	var l model.TimeLog
	err := r.pool.QueryRow(ctx, `
		UPDATE time_logs
		SET end_time = now(),
		    duration = GREATEST(0, ROUND(EXTRACT(EPOCH FROM (now() - start_time)) / 60))::bigint
		WHERE task_id = $1
		  AND start_time IS NOT NULL
		  AND end_time IS NULL
		  AND duration IS NULL
		RETURNING `+timeLogColumns+`
	`, taskID).Scan(
		&l.ID, &l.TaskID, &l.StartTime, &l.EndTime, &l.Duration, &l.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return l, ErrorNotFound
	}
	return l, err
}

// InsertClosed создает сразу закрытый лог (ручной ввод интервала),
// открытый таймер при этом не затрагивается
func (r *TimeLogRepo) InsertClosed(ctx context.Context, taskID int64, start, end time.Time, duration int64) (model.TimeLog, error) {
	var l model.TimeLog
	err := r.pool.QueryRow(ctx, `
		INSERT INTO time_logs (task_id, start_time, end_time, duration)
		VALUES ($1, $2, $3, $4)
		RETURNING `+timeLogColumns+`
	`, taskID, start, end, duration).Scan(
		&l.ID, &l.TaskID, &l.StartTime, &l.EndTime, &l.Duration, &l.CreatedAt,
	)
	return l, mapError(err)
}

func (r *TimeLogRepo) ListByTask(ctx context.Context, taskID int64) ([]model.TimeLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+timeLogColumns+`
		FROM time_logs
		WHERE task_id = $1
		ORDER BY id
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]model.TimeLog, 0)
	for rows.Next() {
		var l model.TimeLog
		if err := rows.Scan(&l.ID, &l.TaskID, &l.StartTime, &l.EndTime, &l.Duration, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// SumDurations суммирует минуты закрытых логов задачи, 0 без ошибки если логов нет
func (r *TimeLogRepo) SumDurations(ctx context.Context, taskID int64) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration), 0)
		FROM time_logs
		WHERE task_id = $1 AND duration IS NOT NULL
	`, taskID).Scan(&total)
	return total, err
}

// SumDurationsForUser суммирует минуты закрытых логов по задачам пользователя
// в окне [from, to). Возвращает также число логов, чтобы сервис мог отличить
// пустую выборку от нулевой длительности.
func (r *TimeLogRepo) SumDurationsForUser(ctx context.Context, userID int64, from, to time.Time) (int64, int, error) {
	var total int64
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(l.duration), 0), COUNT(*)
		FROM time_logs l
		JOIN tasks t ON t.id = l.task_id
		WHERE t.user_id = $1
		  AND l.duration IS NOT NULL
		  AND l.start_time >= $2
		  AND l.start_time < $3
	`, userID, from, to).Scan(&total, &count)
	return total, count, err
}

// SumDurationsByTask агрегирует минуты закрытых логов по задачам.
// Порядок детерминирован: по убыванию длительности с id как tie-break,
// либо просто по id, если ранжирование не запрошено.
func (r *TimeLogRepo) SumDurationsByTask(ctx context.Context, filter model.DurationFilter) ([]model.TaskDuration, error) {
	query := `
		SELECT t.id, t.title, SUM(l.duration)::bigint AS task_duration
		FROM tasks t
		JOIN time_logs l ON l.task_id = t.id
		WHERE l.duration IS NOT NULL
		  AND ($1::timestamptz IS NULL OR l.start_time >= $1)
		  AND ($2::timestamptz IS NULL OR l.start_time < $2)
		  AND ($3::bigint IS NULL OR t.user_id = $3)
		  AND ($4::text IS NULL OR t.status = $4)
		GROUP BY t.id, t.title
	`
	if filter.RankByDuration {
		query += " ORDER BY task_duration DESC, t.id ASC"
	} else {
		query += " ORDER BY t.id ASC"
	}
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, filter.From, filter.To, filter.UserID, filter.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	durations := make([]model.TaskDuration, 0)
	for rows.Next() {
		var d model.TaskDuration
		if err := rows.Scan(&d.TaskID, &d.Title, &d.Duration); err != nil {
			return nil, err
		}
		durations = append(durations, d)
	}
	return durations, rows.Err()
}
