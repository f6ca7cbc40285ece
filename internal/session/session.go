// Package session содержит состояние входа пользователя, хранилища сессий и guard защищённых страниц.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// LoginPath задаёт страницу, на которую guard перенаправляет неаутентифицированного пользователя.
const LoginPath = "/login"

// Session хранит признак входа одного клиента. Идентичности и срока жизни у сессии нет.
type Session struct {
	mu       sync.RWMutex
	id       string
	loggedIn bool
}

// New создаёт сессию в состоянии «не выполнен вход» со случайным идентификатором.
func New() *Session {
	return &Session{id: uuid.NewString()}
}

// Restore создаёт сессию с известным идентификатором и состоянием, например при чтении из хранилища.
func Restore(id string, loggedIn bool) *Session {
	return &Session{id: id, loggedIn: loggedIn}
}

// ID возвращает идентификатор сессии.
func (s *Session) ID() string {
	return s.id
}

// Login отмечает сессию как аутентифицированную. Повторный вызов ничего не меняет.
func (s *Session) Login() {
	s.mu.Lock()
	s.loggedIn = true
	s.mu.Unlock()
}

// Logout сбрасывает признак входа. Повторный вызов ничего не меняет.
func (s *Session) Logout() {
	s.mu.Lock()
	s.loggedIn = false
	s.mu.Unlock()
}

// IsLoggedIn сообщает, выполнен ли вход.
func (s *Session) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Navigator выполняет переход на другую страницу.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc позволяет использовать обычную функцию как Navigator.
type NavigatorFunc func(path string)

// Navigate вызывает f(path).
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Guard разрешает вход на защищённую страницу только аутентифицированной сессии.
// При отказе просит navigator перейти на LoginPath.
func Guard(s *Session, nav Navigator) bool {
	if s != nil && s.IsLoggedIn() {
		return true
	}
	nav.Navigate(LoginPath)
	return false
}
