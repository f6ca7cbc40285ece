// Package service реализует бизнес-логику ресурса пользователей.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mmeshcher/atelier/internal/model"
)

// ErrInvalidUser возвращается, если у пользователя не заполнены обязательные поля.
var ErrInvalidUser = errors.New("invalid user")

// MaxAge ограничивает возраст диапазоном колонки INTEGER.
const MaxAge = math.MaxInt32

//go:generate mockgen -destination=../mocks/repository.go -package=mocks . Repository

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	CreateUser(ctx context.Context, u model.User) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, u model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Service содержит бизнес-логику ресурса пользователей.
type Service struct {
	repo Repository
}

// NewService создаёт новый сервис с указанным репозиторием.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// ListUsers возвращает пользователей, подходящих под фильтр.
func (s *Service) ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	if filter.Age < 0 || filter.Age > MaxAge {
		return nil, fmt.Errorf("%w: age out of range", ErrInvalidUser)
	}
	return s.repo.ListUsers(ctx, filter)
}

// GetUser возвращает пользователя по идентификатору.
func (s *Service) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser проверяет и сохраняет нового пользователя. Переданный идентификатор игнорируется.
func (s *Service) CreateUser(ctx context.Context, u model.User) (*model.User, error) {
	u, err := normalizeUser(u)
	if err != nil {
		return nil, err
	}
	u.ID = 0
	return s.repo.CreateUser(ctx, u)
}

// UpdateUser проверяет и заменяет данные пользователя с указанным идентификатором.
func (s *Service) UpdateUser(ctx context.Context, id int64, u model.User) (*model.User, error) {
	u, err := normalizeUser(u)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateUser(ctx, id, u)
}

// DeleteUser удаляет пользователя.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}

func normalizeUser(u model.User) (model.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)

	switch {
	case u.Name == "":
		return u, fmt.Errorf("%w: name is required", ErrInvalidUser)
	case u.Email == "":
		return u, fmt.Errorf("%w: email is required", ErrInvalidUser)
	case u.Age < 0:
		return u, fmt.Errorf("%w: age must not be negative", ErrInvalidUser)
	case u.Age > MaxAge:
		return u, fmt.Errorf("%w: age must not exceed %d", ErrInvalidUser, MaxAge)
	}
	return u, nil
}
