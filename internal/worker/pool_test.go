package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ruvim24/task-tracker-api/internal/mail"
	"github.com/ruvim24/task-tracker-api/internal/model"
	"github.com/ruvim24/task-tracker-api/internal/repo"
	"github.com/ruvim24/task-tracker-api/tests"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) messages() []mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Message(nil), f.sent...)
}

type fakeIndexer struct {
	mu      sync.Mutex
	indexed []int64
	deleted []int64
}

func (f *fakeIndexer) IndexTask(_ context.Context, t model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, t.ID)
	return nil
}

func (f *fakeIndexer) DeleteTask(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func TestPool_DeliversOutbox(t *testing.T) {
	pool, cleanup := tests.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	outbox := repo.NewNotificationRepo(pool)
	taskRepo := repo.NewTaskRepo(pool)
	userRepo := repo.NewUserRepo(pool)

	userID := tests.SeedUser(t, pool, "assignee", "assignee@exemplu.com")
	taskIDs := tests.SeedTasks(t, pool, 2)
	_, err := pool.Exec(ctx, "UPDATE tasks SET user_id = $1 WHERE id = $2", userID, taskIDs[0])
	require.NoError(t, err)

	// Почтовое событие по назначенной задаче, индексное по второй
	// и письмо по задаче без исполнителя, которое должно упасть
	require.NoError(t, outbox.Enqueue(ctx, model.EventTaskCompleted, model.TaskEventPayload{TaskID: taskIDs[0]}))
	require.NoError(t, outbox.Enqueue(ctx, model.EventIndexTask, model.TaskEventPayload{TaskID: taskIDs[1]}))
	require.NoError(t, outbox.Enqueue(ctx, model.EventTaskCommented, model.TaskEventPayload{TaskID: taskIDs[1], Comment: "ping"}))

	mailer := &fakeMailer{}
	indexer := &fakeIndexer{}
	workers := NewPool(outbox, taskRepo, userRepo, mailer, indexer, zap.NewNop(), 2)
	workers.Start(ctx)

	done := tests.WaitForCondition(t, 15*time.Second, func() bool {
		var pending int
		pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM notifications WHERE status IN ('pending', 'processing')").Scan(&pending)
		return pending == 0
	})
	workers.Stop()
	require.True(t, done, "outbox should drain")

	msgs := mailer.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "assignee@exemplu.com", msgs[0].To)

	indexer.mu.Lock()
	assert.Equal(t, []int64{taskIDs[1]}, indexer.indexed)
	indexer.mu.Unlock()

	var sent, failed int
	pool.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE status = 'sent'").Scan(&sent)
	pool.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE status = 'failed'").Scan(&failed)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed, "email for unassigned task must fail")

	var reason string
	pool.QueryRow(ctx,
		"SELECT error FROM notifications WHERE status = 'failed'").Scan(&reason)
	assert.Contains(t, reason, "no assignee")
}

func TestPool_IndexEventForDeletedTask(t *testing.T) {
	pool, cleanup := tests.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	outbox := repo.NewNotificationRepo(pool)

	// Событие ссылается на несуществующую задачу - воркер молча пропускает
	require.NoError(t, outbox.Enqueue(ctx, model.EventIndexTask, model.TaskEventPayload{TaskID: 999}))
	require.NoError(t, outbox.Enqueue(ctx, model.EventDeindexTask, model.TaskEventPayload{TaskID: 999}))

	indexer := &fakeIndexer{}
	workers := NewPool(outbox, repo.NewTaskRepo(pool), repo.NewUserRepo(pool),
		&fakeMailer{}, indexer, zap.NewNop(), 1)
	workers.Start(ctx)

	done := tests.WaitForCondition(t, 15*time.Second, func() bool {
		var sent int
		pool.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE status = 'sent'").Scan(&sent)
		return sent == 2
	})
	workers.Stop()
	require.True(t, done)

	indexer.mu.Lock()
	defer indexer.mu.Unlock()
	assert.Empty(t, indexer.indexed)
	assert.Equal(t, []int64{999}, indexer.deleted)
}

func TestPool_GracefulStop(t *testing.T) {
	pool, cleanup := tests.SetupTestDB(t)
	defer cleanup()

	workers := NewPool(repo.NewNotificationRepo(pool), repo.NewTaskRepo(pool),
		repo.NewUserRepo(pool), &fakeMailer{}, &fakeIndexer{}, zap.NewNop(), 3)
	workers.Start(context.Background())

	stopped := make(chan struct{})
	go func() {
		workers.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("worker pool did not stop in time")
	}
}
