package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/atelier/internal/model"
	"github.com/mmeshcher/atelier/internal/repository"
	"github.com/mmeshcher/atelier/internal/service"
)

type deleteResponse struct {
	Success bool `json:"success"`
}

// ListUsers возвращает пользователей. Параметры name и age сужают выборку.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.UserFilter{Name: q.Get("name")}
	if v := q.Get("age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "age must be an integer")
			return
		}
		filter.Age = age
	}

	if r.Header.Get("Authorization") != "" {
		h.logger.Debug("users listed with authorization header")
	}

	users, err := h.users.ListUsers(r.Context(), filter)
	if err != nil {
		h.writeUserError(w, "list users error", err)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	h.writeJSON(w, http.StatusOK, users)
}

// GetUser возвращает пользователя по идентификатору.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	u, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		h.writeUserError(w, "get user error", err)
		return
	}

	h.writeJSON(w, http.StatusOK, u)
}

// CreateUser создаёт пользователя и возвращает его с назначенным идентификатором.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.User
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	u, err := h.users.CreateUser(r.Context(), req)
	if err != nil {
		h.writeUserError(w, "create user error", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, u)
}

// UpdateUser заменяет данные пользователя.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req model.User
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	u, err := h.users.UpdateUser(r.Context(), id, req)
	if err != nil {
		h.writeUserError(w, "update user error", err)
		return
	}

	h.writeJSON(w, http.StatusOK, u)
}

// DeleteUser удаляет пользователя.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		h.writeUserError(w, "delete user error", err)
		return
	}

	h.writeJSON(w, http.StatusOK, deleteResponse{Success: true})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeUserError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidUser):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrEmailTaken):
		h.writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(msg, zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
