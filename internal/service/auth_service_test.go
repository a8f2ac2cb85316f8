package service

import (
	"context"
	"testing"
	"time"

	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/logger"
	"academy/lms-backend/internal/repository/memory"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func newTestAuth() (AuthService, *memory.UserRepository) {
	users := memory.NewUserRepository()
	return NewAuthService(users, testSecret, time.Hour, logger.Discard()), users
}

func TestRegisterDefaultsRoleAndSignsToken(t *testing.T) {
	auth, _ := newTestAuth()

	token, user, err := auth.Register(context.Background(), "Ann", " Ann@Example.com ", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth, _ := newTestAuth()
	ctx := context.Background()

	_, _, err := auth.Register(ctx, "Ann", "ann@example.com", "secret1", domain.RoleAdmin)
	require.NoError(t, err)
	_, _, err = auth.Register(ctx, "Other", "ANN@example.com", "secret2", "")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	auth, _ := newTestAuth()
	_, _, err := auth.Register(context.Background(), "Ann", "ann@example.com", "secret1", "trainer")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin(t *testing.T) {
	auth, _ := newTestAuth()
	ctx := context.Background()
	_, _, err := auth.Register(ctx, "Ann", "ann@example.com", "secret1", "")
	require.NoError(t, err)

	token, user, err := auth.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, user.PasswordHash)

	_, _, err = auth.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = auth.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestGetUser(t *testing.T) {
	auth, _ := newTestAuth()
	ctx := context.Background()
	_, registered, err := auth.Register(ctx, "Ann", "ann@example.com", "secret1", "")
	require.NoError(t, err)

	user, err := auth.GetUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.Empty(t, user.PasswordHash)

	_, err = auth.GetUser(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	auth, users := newTestAuth()
	ctx := context.Background()

	_, _, err := auth.Register(ctx, "Bob", "bob@example.com", "secret1", "")
	require.NoError(t, err)

	user, outcome, err := auth.EnsureAdmin(ctx, "Boss", "bob@example.com", "newpass")
	require.NoError(t, err)
	assert.Equal(t, AdminPromoted, outcome)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	stored, err := users.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Boss", stored.Name)
	_, _, err = auth.Login(ctx, "bob@example.com", "newpass")
	assert.NoError(t, err)

	_, outcome, err = auth.EnsureAdmin(ctx, "Boss", "bob@example.com", "other")
	require.NoError(t, err)
	assert.Equal(t, AdminUnchanged, outcome)

	_, outcome, err = auth.EnsureAdmin(ctx, "", "new@example.com", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, AdminCreated, outcome)
}
