package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/ruvim24/task-tracker-api/internal/model"
	"github.com/ruvim24/task-tracker-api/internal/repo"
)

// Scope - окно агрегации длительностей
type Scope string

const (
	ScopeAll          Scope = "all"
	ScopeCurrentMonth Scope = "current_month"
)

// TimeLogService - движок таймеров и агрегации длительностей.
// Жизненный цикл лога: открыт через StartTimer, закрыт через StopTimer,
// либо сразу закрыт через LogTime. Закрытый лог неизменен.
type TimeLogService struct {
	tasks repo.TaskRepository
	logs  repo.TimeLogRepository
	now   func() time.Time
}

func NewTimeLogService(tasks repo.TaskRepository, logs repo.TimeLogRepository) *TimeLogService {
	return &TimeLogService{
		tasks: tasks,
		logs:  logs,
		now:   time.Now,
	}
}

// StartTimer открывает таймер задачи. Если таймер уже идет - ErrTimerRunning.
// Гонку двух конкурентных стартов разрешает уникальный индекс в БД,
// проигравший получает конфликт, а не второй открытый лог.
func (s *TimeLogService) StartTimer(ctx context.Context, taskID int64) (model.TimeLog, error) {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return model.TimeLog{}, err
	}

	l, err := s.logs.InsertOpen(ctx, taskID)
	if errors.Is(err, repo.ErrorConflict) {
		return l, ErrTimerRunning
	}
	return l, err
}

// StopTimer закрывает открытый таймер задачи. Если таймера нет - ErrTimerNotFound.
func (s *TimeLogService) StopTimer(ctx context.Context, taskID int64) (model.TimeLog, error) {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return model.TimeLog{}, err
	}

	l, err := s.logs.CloseOpen(ctx, taskID)
	if errors.Is(err, repo.ErrorNotFound) {
		return l, ErrTimerNotFound
	}
	return l, err
}

// LogTime записывает вручную введенный интервал сразу закрытым логом.
// Нулевая или опущенная длительность выводится из интервала.
func (s *TimeLogService) LogTime(ctx context.Context, taskID int64, start, end time.Time, duration int64) (model.TimeLog, error) {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return model.TimeLog{}, err
	}

	if start.IsZero() || end.IsZero() {
		return model.TimeLog{}, ErrValidation
	}
	if end.Before(start) {
		return model.TimeLog{}, ErrValidation
	}
	if duration < 0 {
		return model.TimeLog{}, ErrValidation
	}

	if duration == 0 {
		duration = int64(math.Round(end.Sub(start).Minutes()))
	}

	return s.logs.InsertClosed(ctx, taskID, start, end, duration)
}

func (s *TimeLogService) TimeLogs(ctx context.Context, taskID int64) ([]model.TimeLog, error) {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return nil, err
	}
	return s.logs.ListByTask(ctx, taskID)
}

// TotalDuration - сумма закрытых логов задачи в часах с одним
// знаком после запятой. Без логов - 0, не ошибка.
func (s *TimeLogService) TotalDuration(ctx context.Context, taskID int64) (float64, error) {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return 0, err
	}

	minutes, err := s.logs.SumDurations(ctx, taskID)
	if err != nil {
		return 0, err
	}
	return minutesToHours(minutes), nil
}

// TotalDurationForUserThisMonth - часы пользователя за текущий календарный
// месяц (UTC). Пустая выборка - ErrNoTimeLogs, а не ноль.
func (s *TimeLogService) TotalDurationForUserThisMonth(ctx context.Context, userID int64) (float64, error) {
	from, to := s.currentMonthRange()

	minutes, count, err := s.logs.SumDurationsForUser(ctx, userID, from, to)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNoTimeLogs
	}
	return minutesToHours(minutes), nil
}

// TasksRankedByDuration - (задача, минуты) по убыванию суммарной
// длительности, tie-break по id задачи
func (s *TimeLogService) TasksRankedByDuration(ctx context.Context, scope Scope, limit int) ([]model.TaskDuration, error) {
	filter := model.DurationFilter{
		RankByDuration: true,
		Limit:          limit,
	}
	if scope == ScopeCurrentMonth {
		from, to := s.currentMonthRange()
		filter.From = &from
		filter.To = &to
	}
	return s.logs.SumDurationsByTask(ctx, filter)
}

// ListDurations - суммарные длительности всех задач с логами, по id задачи
func (s *TimeLogService) ListDurations(ctx context.Context) ([]model.TaskDuration, error) {
	return s.logs.SumDurationsByTask(ctx, model.DurationFilter{})
}

func (s *TimeLogService) currentMonthRange() (time.Time, time.Time) {
	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func minutesToHours(minutes int64) float64 {
	return math.Round(float64(minutes)/60*10) / 10
}
