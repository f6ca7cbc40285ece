package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mmeshcher/atelier/internal/model"
)

// MemoryRepository хранит пользователей в памяти процесса. Используется, когда БД не настроена.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]model.User
}

// NewMemoryRepository создаёт пустое хранилище пользователей.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		users:  make(map[int64]model.User),
	}
}

// Close ничего не освобождает.
func (m *MemoryRepository) Close() error {
	return nil
}

// ListUsers возвращает пользователей, подходящих под фильтр, упорядоченных по идентификатору.
func (m *MemoryRepository) ListUsers(_ context.Context, filter model.UserFilter) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name := strings.ToLower(filter.Name)
	res := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		if name != "" && !strings.Contains(strings.ToLower(u.Name), name) {
			continue
		}
		if filter.Age != 0 && u.Age != filter.Age {
			continue
		}
		res = append(res, u)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

// GetUser возвращает пользователя по идентификатору.
func (m *MemoryRepository) GetUser(_ context.Context, id int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// CreateUser сохраняет нового пользователя и назначает ему идентификатор.
func (m *MemoryRepository) CreateUser(_ context.Context, u model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emailTakenLocked(u.Email, 0) {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
	}

	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return &u, nil
}

// UpdateUser заменяет данные пользователя с указанным идентификатором.
func (m *MemoryRepository) UpdateUser(_ context.Context, id int64, u model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return nil, ErrUserNotFound
	}
	if m.emailTakenLocked(u.Email, id) {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
	}

	u.ID = id
	m.users[id] = u
	return &u, nil
}

// DeleteUser удаляет пользователя.
func (m *MemoryRepository) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MemoryRepository) emailTakenLocked(email string, exceptID int64) bool {
	for id, u := range m.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}
