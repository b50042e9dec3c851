package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ruvim24/task-tracker-api/internal/mail"
	"github.com/ruvim24/task-tracker-api/internal/model"
	"github.com/ruvim24/task-tracker-api/internal/repo"
)

// Indexer - поисковый индекс, в который воркеры сливают индексные события
type Indexer interface {
	IndexTask(ctx context.Context, t model.Task) error
	DeleteTask(ctx context.Context, id int64) error
}

// Pool разбирает outbox: почтовые события уходят в Mailer,
// индексные - в Indexer. Повторных попыток нет, неудачные
// события помечаются failed с причиной.
type Pool struct {
	outbox  repo.NotificationRepository
	tasks   repo.TaskRepository
	users   repo.UserRepository
	mailer  mail.Mailer
	indexer Indexer
	logger  *zap.Logger
	count   int
	wg      sync.WaitGroup
	stop    chan struct{}
}

func NewPool(outbox repo.NotificationRepository, tasks repo.TaskRepository, users repo.UserRepository,
	mailer mail.Mailer, indexer Indexer, logger *zap.Logger, count int) *Pool {
	return &Pool{
		outbox:  outbox,
		tasks:   tasks,
		users:   users,
		mailer:  mailer,
		indexer: indexer,
		logger:  logger,
		count:   count,
		stop:    make(chan struct{}),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("Starting worker pool", zap.Int("workers", p.count))

	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")
	close(p.stop)
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.processNext(ctx, id); err != nil && !errors.Is(err, repo.ErrorNotFound) {
				p.logger.Error("worker error", zap.Int("worker", id), zap.Error(err))
			}
		}
	}
}

func (p *Pool) processNext(ctx context.Context, workerID int) error {
	// Забрать событие
	n, err := p.outbox.Claim(ctx)
	if err != nil {
		return err
	}

	p.logger.Info("Processing notification",
		zap.Int("worker", workerID),
		zap.Int64("notification_id", n.ID),
		zap.String("kind", n.Kind),
	)

	if err := p.deliver(ctx, n); err != nil {
		p.logger.Error("Notification failed",
			zap.Int("worker", workerID),
			zap.Int64("notification_id", n.ID),
			zap.Error(err),
		)
		return p.outbox.MarkFailed(ctx, n.ID, err.Error())
	}

	return p.outbox.MarkSent(ctx, n.ID)
}

func (p *Pool) deliver(ctx context.Context, n model.Notification) error {
	var payload model.TaskEventPayload
	if err := json.Unmarshal(n.Payload, &payload); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	switch n.Kind {
	case model.EventIndexTask:
		task, err := p.tasks.Get(ctx, payload.TaskID)
		if errors.Is(err, repo.ErrorNotFound) {
			return nil // задачу уже удалили
		}
		if err != nil {
			return err
		}
		return p.indexer.IndexTask(ctx, task)

	case model.EventDeindexTask:
		return p.indexer.DeleteTask(ctx, payload.TaskID)

	case model.EventTaskCompleted, model.EventTaskAssigned, model.EventTaskCommented:
		return p.sendEmail(ctx, n.Kind, payload)

	default:
		return fmt.Errorf("unknown notification kind %q", n.Kind)
	}
}

func (p *Pool) sendEmail(ctx context.Context, kind string, payload model.TaskEventPayload) error {
	task, err := p.tasks.Get(ctx, payload.TaskID)
	if err != nil {
		return fmt.Errorf("task not found: %w", err)
	}
	if task.UserID == nil {
		return errors.New("task has no assignee")
	}

	user, err := p.users.Get(ctx, *task.UserID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	var msg mail.Message
	switch kind {
	case model.EventTaskCompleted:
		msg = mail.TaskCompleted(user, task)
	case model.EventTaskAssigned:
		msg = mail.TaskAssigned(user, task)
	case model.EventTaskCommented:
		msg = mail.TaskCommented(user, task, payload.Comment)
	}

	return p.mailer.Send(ctx, msg)
}
