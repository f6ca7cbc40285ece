package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmeshcher/atelier/internal/mocks"
	"github.com/mmeshcher/atelier/internal/model"
	"github.com/mmeshcher/atelier/internal/repository"
)

func newTestService(t *testing.T) (*Service, *mocks.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	return NewService(repo), repo
}

func TestCreateUser_NormalizesAndDropsID(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	repo.EXPECT().
		CreateUser(ctx, model.User{Name: "Charlie", Email: "charlie@example.com"}).
		Return(&model.User{ID: 3, Name: "Charlie", Email: "charlie@example.com"}, nil)

	u, err := svc.CreateUser(ctx, model.User{ID: 42, Name: "  Charlie ", Email: "charlie@example.com "})
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
}

func TestCreateUser_Validation(t *testing.T) {
	tests := []struct {
		name string
		user model.User
	}{
		{name: "empty name", user: model.User{Email: "a@example.com"}},
		{name: "blank name", user: model.User{Name: "   ", Email: "a@example.com"}},
		{name: "empty email", user: model.User{Name: "Alice"}},
		{name: "negative age", user: model.User{Name: "Alice", Email: "a@example.com", Age: -1}},
		{name: "age above column range", user: model.User{Name: "Alice", Email: "a@example.com", Age: MaxAge + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			_, err := svc.CreateUser(context.Background(), tt.user)
			assert.ErrorIs(t, err, ErrInvalidUser)
		})
	}
}

func TestUpdateUser_PropagatesNotFound(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	repo.EXPECT().
		UpdateUser(ctx, int64(7), gomock.Any()).
		Return(nil, repository.ErrUserNotFound)

	_, err := svc.UpdateUser(ctx, 7, model.User{Name: "Ghost", Email: "ghost@example.com"})
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))
}

func TestListUsers_TrimsFilter(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	repo.EXPECT().
		ListUsers(ctx, model.UserFilter{Name: "Alice", Age: 25}).
		Return([]model.User{{ID: 1, Name: "Alice"}}, nil)

	users, err := svc.ListUsers(ctx, model.UserFilter{Name: " Alice ", Age: 25})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestListUsers_NegativeAge(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListUsers(context.Background(), model.UserFilter{Age: -3})
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestUpdateUser_AgeAboveColumnRange(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateUser(context.Background(), 1, model.User{Name: "Alice", Email: "a@example.com", Age: MaxAge + 1})
	assert.ErrorIs(t, err, ErrInvalidUser)

	_, err = svc.ListUsers(context.Background(), model.UserFilter{Age: MaxAge + 1})
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestGetAndDeleteUser_PassThrough(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	repo.EXPECT().GetUser(ctx, int64(1)).Return(&model.User{ID: 1, Name: "Alice"}, nil)
	repo.EXPECT().DeleteUser(ctx, int64(1)).Return(nil)

	u, err := svc.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	require.NoError(t, svc.DeleteUser(ctx, 1))
}

func TestClose(t *testing.T) {
	svc, repo := newTestService(t)
	repo.EXPECT().Close().Return(nil)

	assert.NoError(t, svc.Close())
	assert.NoError(t, (&Service{}).Close())
}

func TestService_WithMemoryRepository(t *testing.T) {
	svc := NewService(repository.NewMemoryRepository())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, model.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
}
