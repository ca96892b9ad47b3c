package service

import (
	"context"
	"errors"
	"testing"

	"saleshub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, &memAuditRepo{})
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Username:           "maria",
		Email:              "maria@example.com",
		Password:           "secret123",
		Role:               model.RoleSalesman,
		MaxDiscountPercent: 15,
	})
	require.NoError(t, err)
	assert.True(t, created.Approved)
	assert.Equal(t, 15.0, created.MaxDiscountPercent)

	// Password is hashed at rest.
	stored := repo.users[created.ID]
	assert.NotEqual(t, "secret123", stored.Password)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, CreateUserRequest{
			Username: "maria", Email: "other@example.com", Password: "secret123", Role: model.RoleCustomer,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "username already exists")
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, CreateUserRequest{
			Username: "bob", Email: "bob@example.com", Password: "secret123", Role: "superuser",
		})
		require.Error(t, err)
	})

	t.Run("discount ceiling ignored for non-salesmen", func(t *testing.T) {
		worker, err := svc.CreateUser(ctx, CreateUserRequest{
			Username: "hans", Email: "hans@example.com", Password: "secret123",
			Role: model.RoleWorker, MaxDiscountPercent: 50,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, worker.MaxDiscountPercent)
	})
}

func TestLogin(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, &memAuditRepo{})
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "maria", Email: "maria@example.com", Password: "secret123", Role: model.RoleSalesman,
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		token, err := svc.Login(ctx, LoginUserRequest{Email: "maria@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, token.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginUserRequest{Email: "maria@example.com", Password: "nope"})
		require.Error(t, err)
		assert.Equal(t, "invalid email or password", err.Error())
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginUserRequest{Email: "ghost@example.com", Password: "secret123"})
		require.Error(t, err)
	})

	t.Run("unapproved account", func(t *testing.T) {
		u, err := repo.GetByEmail(ctx, "maria@example.com")
		require.NoError(t, err)
		u.Approved = false
		defer func() { u.Approved = true }()

		_, err = svc.Login(ctx, LoginUserRequest{Email: "maria@example.com", Password: "secret123"})
		require.Error(t, err)
		assert.Equal(t, "account is awaiting approval", err.Error())
	})
}

func TestUpdateUser(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, &memAuditRepo{})
	ctx := context.Background()

	salesman := repo.add(&model.User{Username: "maria", Email: "maria@example.com", Role: model.RoleSalesman, Approved: true})
	worker := repo.add(&model.User{Username: "hans", Email: "hans@example.com", Role: model.RoleWorker, Approved: true})

	t.Run("raise discount ceiling", func(t *testing.T) {
		ceiling := 20.0
		updated, err := svc.UpdateUser(ctx, salesman.ID.String(), UpdateUserRequest{MaxDiscountPercent: &ceiling})
		require.NoError(t, err)
		assert.Equal(t, 20.0, updated.MaxDiscountPercent)
	})

	t.Run("ceiling rejected for workers", func(t *testing.T) {
		ceiling := 20.0
		_, err := svc.UpdateUser(ctx, worker.ID.String(), UpdateUserRequest{MaxDiscountPercent: &ceiling})
		require.Error(t, err)
	})

	t.Run("revoke approval", func(t *testing.T) {
		approved := false
		updated, err := svc.UpdateUser(ctx, worker.ID.String(), UpdateUserRequest{Approved: &approved})
		require.NoError(t, err)
		assert.False(t, updated.Approved)
	})
}

// failingUserRepo errors on every read to exercise degradation paths.
type failingUserRepo struct {
	memUserRepo
}

func (f *failingUserRepo) List(_ context.Context, _, _ int, _ string) ([]model.User, int64, error) {
	return nil, 0, errors.New("connection refused")
}

func TestListUsersSoftFails(t *testing.T) {
	svc := NewUserService(&failingUserRepo{}, &memAuditRepo{})

	users, total, err := svc.ListUsers(context.Background(), 1, 20, "")
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, int64(0), total)
}
