package service

import (
	"context"
	"strings"

	"github.com/ruvim24/task-tracker-api/internal/model"
	"github.com/ruvim24/task-tracker-api/internal/repo"
)

const maxCommentLength = 250

type CommentService struct {
	tasks    repo.TaskRepository
	comments repo.CommentRepository
}

func NewCommentService(tasks repo.TaskRepository, comments repo.CommentRepository) *CommentService {
	return &CommentService{
		tasks:    tasks,
		comments: comments,
	}
}

func (s *CommentService) Add(ctx context.Context, taskID int64, content string) (model.Comment, error) {
	if strings.TrimSpace(content) == "" || len(content) > maxCommentLength {
		return model.Comment{}, ErrValidation
	}

	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return model.Comment{}, err
	}

	// Письмо исполнителю о новом комментарии репозиторий ставит
	// в outbox той же транзакцией, что и вставку
	return s.comments.Create(ctx, model.Comment{TaskID: taskID, Content: content})
}

func (s *CommentService) ListByTask(ctx context.Context, taskID int64) ([]model.Comment, error) {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return nil, err
	}
	return s.comments.ListByTask(ctx, taskID)
}
