// Package handler содержит HTTP-обработчики API сервиса atelier.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/atelier/internal/metrics"
	"github.com/mmeshcher/atelier/internal/middleware"
	"github.com/mmeshcher/atelier/internal/model"
	"github.com/mmeshcher/atelier/internal/pricing"
	"github.com/mmeshcher/atelier/internal/validation"
)

// ErrNotNumbers содержит текст ошибки POST /calculate при нечисловых слагаемых.
const ErrNotNumbers = "a et b doivent être des nombres"

// UserService определяет контракт ресурса пользователей, используемый HTTP-обработчиками.
type UserService interface {
	ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	CreateUser(ctx context.Context, u model.User) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, u model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Deps содержит зависимости обработчиков.
type Deps struct {
	Users    UserService
	Pricing  pricing.Calculator
	Auth     validation.Authenticator
	Sessions *middleware.SessionMiddleware
	Metrics  *metrics.Metrics
}

// Handler реализует HTTP-обработчики API сервиса atelier.
type Handler struct {
	users    UserService
	pricing  pricing.Calculator
	display  *pricing.Display
	auth     validation.Authenticator
	sessions *middleware.SessionMiddleware
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(deps Deps, logger *zap.Logger) *Handler {
	return &Handler{
		users:    deps.Users,
		pricing:  deps.Pricing,
		display:  pricing.NewDefaultDisplay(deps.Pricing),
		auth:     deps.Auth,
		sessions: deps.Sessions,
		metrics:  deps.Metrics,
		logger:   logger,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Hello возвращает приветствие по умолчанию.
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Hello World"})
}

// HelloName возвращает приветствие для имени из пути запроса.
func (h *Handler) HelloName(w http.ResponseWriter, r *http.Request) {
	// chi сопоставляет по RawPath, только если он задан, и тогда параметр ещё не раскодирован.
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(name); err == nil {
			name = decoded
		}
	}

	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Hello " + name + "!"})
}

type calculateRequest struct {
	A any `json:"a"`
	B any `json:"b"`
}

type calculateResponse struct {
	Result float64 `json:"result"`
}

// Calculate складывает два числа из тела запроса.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: ErrNotNumbers})
		return
	}

	a, okA := req.A.(float64)
	b, okB := req.B.(float64)
	if !okA || !okB {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: ErrNotNumbers})
		return
	}

	h.writeJSON(w, http.StatusOK, calculateResponse{Result: a + b})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}
