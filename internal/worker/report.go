package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ruvim24/task-tracker-api/internal/mail"
	"github.com/ruvim24/task-tracker-api/internal/model"
	"github.com/ruvim24/task-tracker-api/internal/repo"
)

const reportTopTasks = 20

// Reporter по расписанию шлет каждому пользователю отчет
// по его задачам с наибольшим залогированным временем
type Reporter struct {
	users  repo.UserRepository
	logs   repo.TimeLogRepository
	mailer mail.Mailer
	logger *zap.Logger
	cron   *cron.Cron
}

func NewReporter(users repo.UserRepository, logs repo.TimeLogRepository, mailer mail.Mailer, logger *zap.Logger) *Reporter {
	return &Reporter{
		users:  users,
		logs:   logs,
		mailer: mailer,
		logger: logger,
		cron:   cron.New(),
	}
}

func (r *Reporter) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		r.Run(context.Background())
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("Report scheduler started", zap.String("schedule", schedule))
	return nil
}

func (r *Reporter) Stop() {
	<-r.cron.Stop().Done()
}

// Run формирует и рассылает отчет один раз, его же дергает расписание
func (r *Reporter) Run(ctx context.Context) {
	users, err := r.users.List(ctx)
	if err != nil {
		r.logger.Error("report: list users", zap.Error(err))
		return
	}

	for _, user := range users {
		userID := user.ID
		// В отчет попадают только открытые задачи пользователя
		statusOpen := model.StatusOpen
		durations, err := r.logs.SumDurationsByTask(ctx, model.DurationFilter{
			UserID:         &userID,
			Status:         &statusOpen,
			RankByDuration: true,
			Limit:          reportTopTasks,
		})
		if err != nil {
			r.logger.Error("report: aggregate durations", zap.Int64("user_id", user.ID), zap.Error(err))
			continue
		}
		if len(durations) == 0 {
			continue
		}

		if err := r.mailer.Send(ctx, mail.TopTasksReport(user, durations)); err != nil {
			r.logger.Error("report: send email", zap.Int64("user_id", user.ID), zap.Error(err))
			continue
		}

		r.logger.Info("Report sent",
			zap.Int64("user_id", user.ID),
			zap.Int("tasks", len(durations)),
		)
	}
}
