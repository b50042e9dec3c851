package service

import (
	"context"
	"strings"

	"github.com/ruvim24/task-tracker-api/internal/model"
	"github.com/ruvim24/task-tracker-api/internal/repo"
)

type UserService struct {
	repo repo.UserRepository
}

func NewUserService(userRepo repo.UserRepository) *UserService {
	return &UserService{repo: userRepo}
}

func (s *UserService) Register(ctx context.Context, u model.User) (model.User, error) {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)

	if u.Username == "" || u.Email == "" || !strings.Contains(u.Email, "@") {
		return u, ErrValidation
	}
	return s.repo.Create(ctx, u)
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}
