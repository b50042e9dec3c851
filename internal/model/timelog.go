package model

import "time"

// TimeLog - один интервал работы над задачей. Открытый таймер имеет
// start_time без end_time и duration; закрытый лог имеет оба и неизменен.
type TimeLog struct {
	ID        int64      `json:"id"`
	TaskID    int64      `json:"task_id"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  *int64     `json:"duration,omitempty"` // минуты
	CreatedAt time.Time  `json:"created_at"`
}

func (l TimeLog) Open() bool {
	return l.StartTime != nil && l.EndTime == nil && l.Duration == nil
}

func (l TimeLog) Closed() bool {
	return l.EndTime != nil && l.Duration != nil
}

// TaskDuration - суммарная длительность по задаче в минутах
type TaskDuration struct {
	TaskID   int64  `json:"-"`
	Title    string `json:"title"`
	Duration int64  `json:"task_duration"`
}

// DurationFilter ограничивает агрегацию по start_time закрытых логов.
// Границы месяца считает сервис (фиксированный календарный месяц по UTC).
type DurationFilter struct {
	From           *time.Time
	To             *time.Time
	UserID         *int64
	Status         *string
	RankByDuration bool
	Limit          int
}
