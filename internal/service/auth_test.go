package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipeswipers/recipeswipe/internal/service"
	"github.com/recipeswipers/recipeswipe/internal/testhelpers"
)

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, token, err := auth.Register(ctx, "  alice ", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "pa55word", user.PasswordHash)
	assert.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, _, err = auth.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, service.ErrUserExists)

	loggedIn, token, err := auth.Login(ctx, "alice", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	_, _, err = auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, _, err = auth.Login(ctx, "bob", "pa55word")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthServiceMissingCredentials(t *testing.T) {
	auth := service.NewAuthService(testhelpers.SetupTestDB(t), "test-secret")
	ctx := context.Background()

	_, _, err := auth.Register(ctx, "", "x")
	assert.ErrorIs(t, err, service.ErrMissingCredentials)
	_, _, err = auth.Register(ctx, "carol", "")
	assert.ErrorIs(t, err, service.ErrMissingCredentials)
	_, _, err = auth.Login(ctx, " ", "x")
	assert.ErrorIs(t, err, service.ErrMissingCredentials)
}

func TestAuthServiceValidateTokenRejects(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")
	other := service.NewAuthService(db, "another-secret")

	_, token, err := other.Register(context.Background(), "dave", "pw")
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
	_, err = auth.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestAuthServiceGetUser(t *testing.T) {
	auth := service.NewAuthService(testhelpers.SetupTestDB(t), "test-secret")
	ctx := context.Background()

	user, _, err := auth.Register(ctx, "erin", "pw")
	require.NoError(t, err)

	got, err := auth.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "erin", got.Username)

	_, err = auth.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
