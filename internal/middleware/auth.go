// Package middleware содержит HTTP middleware сервиса atelier.
package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/atelier/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

const sessionCookieName = "session_id"

// SessionMiddleware связывает запрос с сессией по подписанному cookie.
type SessionMiddleware struct {
	secretKey []byte
	store     session.Store
	logger    *zap.Logger
}

// NewSessionMiddleware создаёт middleware сессий. Пустой секрет заменяется случайным ключом,
// и тогда cookie перестают быть действительными после перезапуска.
func NewSessionMiddleware(secret string, store session.Store, logger *zap.Logger) *SessionMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &SessionMiddleware{
		secretKey: key,
		store:     store,
		logger:    logger,
	}
}

// Middleware находит сессию по cookie или создаёт новую и добавляет её в контекст запроса.
func (m *SessionMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.resolve(r)
		if err != nil {
			m.logger.Error("resolve session error", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if s == nil {
			s = session.New()
			if err := m.store.Save(r.Context(), s); err != nil {
				m.logger.Error("save session error", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			m.SetSessionCookie(w, s.ID())
		}

		ctx := context.WithValue(r.Context(), sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireLogin пропускает запрос дальше только для сессии с выполненным входом.
// Иначе отвечает 303 See Other на страницу входа.
func (m *SessionMiddleware) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _ := SessionFromContext(r.Context())

		nav := session.NavigatorFunc(func(path string) {
			http.Redirect(w, r, path, http.StatusSeeOther)
		})
		if !session.Guard(s, nav) {
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Save сохраняет изменённое состояние сессии.
func (m *SessionMiddleware) Save(ctx context.Context, s *session.Session) error {
	return m.store.Save(ctx, s)
}

// SetSessionCookie устанавливает подписанный cookie с идентификатором сессии.
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    m.sign(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionMiddleware) resolve(r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, nil
	}

	id, ok := m.parseCookie(cookie.Value)
	if !ok {
		return nil, nil
	}

	s, err := m.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (m *SessionMiddleware) sign(id string) string {
	return id + "." + m.signature(id)
}

func (m *SessionMiddleware) signature(id string) string {
	mac := hmac.New(sha256.New, m.secretKey)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

func (m *SessionMiddleware) parseCookie(value string) (string, bool) {
	id, signature, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}

	if !hmac.Equal([]byte(signature), []byte(m.signature(id))) {
		return "", false
	}

	return id, true
}

// SessionFromContext извлекает сессию из контекста запроса.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok
}
