package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/atelier/internal/middleware"
	"github.com/mmeshcher/atelier/internal/model"
	"github.com/mmeshcher/atelier/internal/validation"
)

// ProtectedTitle содержит заголовок защищённой страницы.
const ProtectedTitle = "Application de test"

type loginErrorsResponse struct {
	Errors validation.Errors `json:"errors"`
}

type loginResponse struct {
	Submitted bool `json:"submitted"`
}

// Login проверяет форму входа, передаёт её значения в Authenticator и отмечает сессию как аутентифицированную.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	form := validation.NewForm()
	form.SetEmail(req.Email)
	form.SetPassword(req.Password)

	if !form.Valid() {
		h.writeJSON(w, http.StatusUnprocessableEntity, loginErrorsResponse{Errors: form.Errors()})
		return
	}

	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.logger.Error("login without session")
		h.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	if err := form.Submit(r.Context(), h.auth); err != nil {
		if errors.Is(err, validation.ErrCredentialsRejected) {
			h.writeError(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
			return
		}
		h.logger.Error("submit login form error", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	s.Login()
	if err := h.sessions.Save(r.Context(), s); err != nil {
		h.logger.Error("save session error", zap.Error(err), zap.String("session", s.ID()))
		h.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	h.writeJSON(w, http.StatusOK, loginResponse{Submitted: form.Submitted()})
}

// Logout сбрасывает признак входа текущей сессии.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.Logout()
	if err := h.sessions.Save(r.Context(), s); err != nil {
		h.logger.Error("save session error", zap.Error(err), zap.String("session", s.ID()))
		h.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	LoggedIn bool `json:"loggedIn"`
}

// SessionStatus сообщает, выполнен ли вход в текущей сессии.
func (h *Handler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	h.writeJSON(w, http.StatusOK, sessionResponse{LoggedIn: ok && s.IsLoggedIn()})
}

type protectedResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Protected отдаёт защищённую страницу. Доступ проверяет middleware RequireLogin.
func (h *Handler) Protected(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, protectedResponse{
		Title:   ProtectedTitle,
		Message: "Bienvenue !",
	})
}
