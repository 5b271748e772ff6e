package service

import (
	"context"
	"errors"

	"prokatnik/internal/database"
	"prokatnik/internal/domain"
	"prokatnik/internal/models"

	"github.com/rs/zerolog"
)

// UserService — CRUD вокруг учетных записей. Ядру от него нужна только
// проверка существования, остальное — обвязка.
type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Create(ctx context.Context, name, email string) (*models.User, error) {
	user := &models.User{Name: name, Email: email}
	err := s.repo.CreateUser(ctx, user)
	if errors.Is(err, database.ErrDuplicateEmail) {
		return nil, Validation("email already in use")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

// UserUpdate carries partial edits; nil fields stay untouched.
type UserUpdate struct {
	Name  *string
	Email *string
}

func (s *UserService) Update(ctx context.Context, id int64, upd UserUpdate) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}

	err = s.repo.UpdateUser(ctx, user)
	if errors.Is(err, database.ErrDuplicateEmail) {
		return nil, Validation("email already in use")
	}
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.repo.DeleteUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return NotFound("user not found")
	}
	return err
}
