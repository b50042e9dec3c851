package handler

import (
	"github.com/go-chi/chi/v5"
)

// Routes монтирует все маршруты API на роутер
func Routes(r chi.Router, tasks *TaskHandler, timeLogs *TimeLogHandler,
	comments *CommentHandler, attachments *AttachmentHandler, users *UserHandler) {

	r.Route("/api/tasks", func(r chi.Router) {
		r.Post("/", tasks.Create)
		r.Get("/", tasks.List)
		r.Get("/{id}", tasks.Get)
		r.Put("/{id}", tasks.Update)
		r.Delete("/{id}", tasks.Delete)
		r.Put("/{id}/complete", tasks.Complete)
		r.Put("/{id}/assign-user", tasks.Assign)

		r.Post("/{id}/comment", comments.Add)
		r.Get("/{id}/comments", comments.ListByTask)

		r.Post("/{id}/start-timer", timeLogs.StartTimer)
		r.Put("/{id}/stop-timer", timeLogs.StopTimer)
		r.Get("/{id}/time-logs", timeLogs.TimeLogs)
		r.Post("/{id}/log-time", timeLogs.LogTime)
		r.Get("/{id}/logged-time-duration", timeLogs.LoggedTimeDuration)

		r.Post("/{id}/attachments", attachments.Create)
		r.Get("/{id}/attachments", attachments.ListByTask)
	})

	r.Get("/api/last-month-time-logged-duration", timeLogs.LastMonthDuration)
	r.Get("/api/tasks-list-duration", timeLogs.TasksListDuration)
	r.Get("/api/top-tasks", timeLogs.TopTasks)

	r.Post("/api/attachments/webhook", attachments.Webhook)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", users.Register)
		r.Get("/", users.List)
		r.Get("/{id}", users.Get)
	})

	r.Get("/api/stats", tasks.Stats)
}
