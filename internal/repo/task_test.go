// internal/repo/task_test.go
package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruvim24/task-tracker-api/internal/model"
)

func countPendingEvents(t *testing.T, pool *pgxpool.Pool, kind string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM notifications WHERE kind = $1 AND status = 'pending'", kind).Scan(&n)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// Каждая мутация задачи пишет свое событие в outbox той же транзакцией,
// между изменением и постановкой в очередь нет окна потери
func TestTaskRepo_MutationsWriteOutbox(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	tasks := NewTaskRepo(pool)
	users := NewUserRepo(pool)

	task, err := tasks.Create(ctx, model.Task{Title: "outbox target", Status: model.StatusOpen})
	if err != nil {
		t.Fatal(err)
	}
	if got := countPendingEvents(t, pool, model.EventIndexTask); got != 1 {
		t.Errorf("expected 1 index event after create, got %d", got)
	}

	user, err := users.Create(ctx, model.User{Username: "assignee", Email: "assignee@exemplu.com"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tasks.AssignUser(ctx, task.ID, user.ID); err != nil {
		t.Fatal(err)
	}
	if got := countPendingEvents(t, pool, model.EventTaskAssigned); got != 1 {
		t.Errorf("expected 1 assigned event, got %d", got)
	}

	if _, err := tasks.SetStatus(ctx, task.ID, model.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	if got := countPendingEvents(t, pool, model.EventTaskCompleted); got != 1 {
		t.Errorf("expected 1 completed event, got %d", got)
	}
	if got := countPendingEvents(t, pool, model.EventIndexTask); got != 2 {
		t.Errorf("expected completion to reindex, got %d index events", got)
	}

	if err := tasks.Delete(ctx, task.ID); err != nil {
		t.Fatal(err)
	}
	if got := countPendingEvents(t, pool, model.EventDeindexTask); got != 1 {
		t.Errorf("expected 1 deindex event after delete, got %d", got)
	}
}

// Проигранный optimistic-lock не оставляет события в outbox
func TestTaskRepo_Update_ConflictWritesNoEvent(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	tasks := NewTaskRepo(pool)

	task, err := tasks.Create(ctx, model.Task{Title: "stale update", Status: model.StatusOpen})
	if err != nil {
		t.Fatal(err)
	}
	before := countPendingEvents(t, pool, model.EventIndexTask)

	task.Title = "changed"
	task.Version = task.Version + 41 // заведомо чужая версия
	if _, err := tasks.Update(ctx, task); !errors.Is(err, ErrorConflict) {
		t.Fatalf("expected ErrorConflict, got %v", err)
	}

	if got := countPendingEvents(t, pool, model.EventIndexTask); got != before {
		t.Errorf("conflict must not enqueue: had %d index events, got %d", before, got)
	}
}
