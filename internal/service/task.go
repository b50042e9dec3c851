package service

import (
	"context"
	"strings"

	"github.com/ruvim24/task-tracker-api/internal/model"
	"github.com/ruvim24/task-tracker-api/internal/repo"
)

type TaskService struct {
	repo     repo.TaskRepository
	users    repo.UserRepository
	comments repo.CommentRepository
}

func NewTaskService(taskRepo repo.TaskRepository, users repo.UserRepository,
	comments repo.CommentRepository) *TaskService {
	return &TaskService{
		repo:     taskRepo,
		users:    users,
		comments: comments,
	}
}

func (s *TaskService) Create(ctx context.Context, t model.Task, idempKey string) (model.Task, error) {
	if t.Status == "" {
		t.Status = model.StatusOpen
	}
	if err := s.validate(t); err != nil { // Валидация модели на корректность введенных данных
		return t, err
	}

	if idempKey != "" { // Обеспечение идемпотентности - если ключ с ресурсом уже существует, мы не создаем его еще раз
		if existingID, err := s.repo.GetIdempotencyKey(ctx, idempKey); err == nil {
			return s.repo.Get(ctx, existingID)
		}
	}

	// Создание новой задачи
	resource, err := s.repo.Create(ctx, t)
	if err != nil {
		return resource, err
	}

	// Сохранение нового ключа. Гонку конкурентных запросов с одним ключом
	// решает ON CONFLICT: проигравший находит чужой resource_id, убирает
	// свою задачу и возвращает задачу победителя
	if idempKey != "" {
		if err := s.repo.SaveIdempotencyKey(ctx, idempKey, resource.ID); err != nil {
			return resource, err
		}
		winnerID, err := s.repo.GetIdempotencyKey(ctx, idempKey)
		if err != nil {
			return resource, err
		}
		if winnerID != resource.ID {
			// Неудачная зачистка оставила бы осиротевшую задачу,
			// молча проглатывать ее нельзя
			if err := s.repo.Delete(ctx, resource.ID); err != nil {
				return resource, err
			}
			return s.repo.Get(ctx, winnerID)
		}
	}

	return resource, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

// Detail возвращает задачу вместе с комментариями
func (s *TaskService) Detail(ctx context.Context, id int64) (model.TaskDetail, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.TaskDetail{}, err
	}

	comments, err := s.comments.ListByTask(ctx, id)
	if err != nil {
		return model.TaskDetail{}, err
	}
	return model.TaskDetail{Task: t, Comments: comments}, nil
}

func (s *TaskService) List(ctx context.Context, filter model.TaskFilter, limit int) ([]model.Task, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, filter, limit)
}

func (s *TaskService) Update(ctx context.Context, t model.Task) (model.Task, error) {
	if err := s.validate(t); err != nil {
		return t, err
	}

	return s.repo.Update(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Complete переводит задачу в completed, письмо исполнителю и переиндексацию
// репозиторий ставит в outbox той же транзакцией
func (s *TaskService) Complete(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.SetStatus(ctx, id, model.StatusCompleted)
}

// Assign назначает исполнителя
func (s *TaskService) Assign(ctx context.Context, id, userID int64) (model.Task, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return model.Task{}, err
	}
	return s.repo.AssignUser(ctx, id, userID)
}

func (s *TaskService) GetStats(ctx context.Context) (repo.Stats, error) {
	return s.repo.GetStats(ctx)
}

func (s *TaskService) validate(t model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrValidation
	}
	if len(t.Title) > 255 {
		return ErrValidation
	}
	if !model.ValidStatus(t.Status) {
		return ErrValidation
	}
	return nil
}
