package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ruvim24/task-tracker-api/internal/model"
	"github.com/ruvim24/task-tracker-api/internal/repo"
	"github.com/ruvim24/task-tracker-api/internal/service"
	"github.com/ruvim24/task-tracker-api/tests"
)

func setupTaskRouter(t *testing.T) (*chi.Mux, *pgxpool.Pool, func()) {
	pool, cleanup := tests.SetupTestDB(t)

	taskRepo := repo.NewTaskRepo(pool)
	userRepo := repo.NewUserRepo(pool)
	h := NewTaskHandler(service.NewTaskService(taskRepo, userRepo, repo.NewCommentRepo(pool)), zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/tasks", h.Create)
	r.Get("/api/tasks", h.List)
	r.Get("/api/tasks/{id}", h.Get)
	r.Put("/api/tasks/{id}", h.Update)
	r.Delete("/api/tasks/{id}", h.Delete)
	r.Put("/api/tasks/{id}/complete", h.Complete)
	r.Put("/api/tasks/{id}/assign-user", h.Assign)
	r.Get("/api/stats", h.Stats)

	return r, pool, cleanup
}

func TestTaskHandler_Create(t *testing.T) {
	r, _, cleanup := setupTaskRouter(t)
	defer cleanup()

	testCases := []struct {
		name          string
		body          interface{}
		idempKey      string
		wantCode      int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:     "successful creation",
			body:     model.Task{Title: "Test Task", Description: "details"},
			wantCode: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var task model.Task
				json.NewDecoder(w.Body).Decode(&task)
				assert.NotZero(t, task.ID)
				assert.Equal(t, "Test Task", task.Title)
				assert.Equal(t, model.StatusOpen, task.Status)
				assert.Contains(t, w.Header().Get("Location"), "/api/tasks/")
			},
		},
		{
			name:     "empty body",
			body:     nil,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "validation error",
			body:     model.Task{Title: ""},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown status",
			body:     model.Task{Title: "Bad", Status: "doing"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "with idempotency key",
			body:     model.Task{Title: "Idempotent Task"},
			idempKey: "test-key-123",
			wantCode: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				// Повторная отправка с тем же ключом возвращает ту же задачу
				body, _ := json.Marshal(model.Task{Title: "Idempotent Task"})
				w2 := doRequest(r, http.MethodPost, "/api/tasks", body,
					map[string]string{"Idempotency-Key": "test-key-123"})

				var task1, task2 model.Task
				json.NewDecoder(w.Body).Decode(&task1)
				json.NewDecoder(w2.Body).Decode(&task2)

				assert.Equal(t, task1.ID, task2.ID, "should return same task")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var body []byte
			if tc.body != nil {
				body, _ = json.Marshal(tc.body)
			}

			headers := map[string]string{}
			if tc.idempKey != "" {
				headers["Idempotency-Key"] = tc.idempKey
			}

			w := doRequest(r, http.MethodPost, "/api/tasks", body, headers)
			assert.Equal(t, tc.wantCode, w.Code)

			if tc.checkResponse != nil {
				tc.checkResponse(t, w)
			}
		})
	}
}

func TestTaskHandler_GetUpdateDelete(t *testing.T) {
	r, pool, cleanup := setupTaskRouter(t)
	defer cleanup()

	taskIDs := tests.SeedTasks(t, pool, 1)
	base := fmt.Sprintf("/api/tasks/%d", taskIDs[0])

	w := doRequest(r, http.MethodGet, base, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var task model.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&task))

	t.Run("update", func(t *testing.T) {
		task.Title = "Renamed"
		body, _ := json.Marshal(task)

		w := doRequest(r, http.MethodPut, base, body, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var updated model.Task
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, task.Version+1, updated.Version)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		// task все еще несет старую версию
		task.Title = "Stale write"
		body, _ := json.Marshal(task)

		w := doRequest(r, http.MethodPut, base, body, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := doRequest(r, http.MethodDelete, base, nil, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(r, http.MethodGet, base, nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_CompleteAndAssign(t *testing.T) {
	r, pool, cleanup := setupTaskRouter(t)
	defer cleanup()

	taskIDs := tests.SeedTasks(t, pool, 1)
	userID := tests.SeedUser(t, pool, "assignee", "assignee@exemplu.com")
	base := fmt.Sprintf("/api/tasks/%d", taskIDs[0])

	body, _ := json.Marshal(map[string]int64{"user_id": userID})
	w := doRequest(r, http.MethodPut, base+"/assign-user", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var task model.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&task))
	require.NotNil(t, task.UserID)
	assert.Equal(t, userID, *task.UserID)

	w = doRequest(r, http.MethodPut, base+"/complete", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&task))
	assert.Equal(t, model.StatusCompleted, task.Status)

	t.Run("assign unknown user", func(t *testing.T) {
		body, _ := json.Marshal(map[string]int64{"user_id": 999})
		w := doRequest(r, http.MethodPut, base+"/assign-user", body, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_ListFilters(t *testing.T) {
	r, pool, cleanup := setupTaskRouter(t)
	defer cleanup()

	tests.SeedTasks(t, pool, 3)

	w := doRequest(r, http.MethodGet, "/api/tasks?status="+model.StatusOpen, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []model.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tasks))
	assert.Len(t, tasks, 3)

	w = doRequest(r, http.MethodGet, "/api/tasks?status="+model.StatusCompleted, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks = nil
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tasks))
	assert.Empty(t, tasks)

	w = doRequest(r, http.MethodGet, "/api/tasks?user_id=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_Stats(t *testing.T) {
	r, pool, cleanup := setupTaskRouter(t)
	defer cleanup()

	taskIDs := tests.SeedTasks(t, pool, 2)
	tests.SeedClosedLog(t, pool, taskIDs[0], time.Now().UTC().Add(-2*time.Hour), 45)

	w := doRequest(r, http.MethodGet, "/api/stats", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats repo.Stats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 2, stats.TotalTasks)
	assert.Equal(t, int64(45), stats.LoggedMinutes)
}
