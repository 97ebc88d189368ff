package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipeswipers/recipeswipe/config"
	"github.com/recipeswipers/recipeswipe/internal/model"
)

func memoryConfig() *config.Config {
	return &config.Config{
		DBDriver: "sqlite",
		DBDSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
}

func TestOpenSQLiteMigrates(t *testing.T) {
	db, err := Open(memoryConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	require.NoError(t, HealthCheck(context.Background(), db))

	user := model.User{Username: "alice", PasswordHash: "hash", Preferences: model.JSONBStringMap{"mealType": "lunch"}}
	require.NoError(t, db.Create(&user).Error)
	assert.NotEqual(t, uuid.Nil, user.ID)

	var loaded model.User
	require.NoError(t, db.First(&loaded, "username = ?", "alice").Error)
	assert.Equal(t, "lunch", loaded.Preferences["mealType"])

	swipe := model.Swipe{UserID: user.ID, RecipeID: "r1", Direction: model.DirectionLike}
	require.NoError(t, db.Create(&swipe).Error)
	dup := model.Swipe{UserID: user.ID, RecipeID: "r1", Direction: model.DirectionDislike}
	assert.Error(t, db.Create(&dup).Error)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDSN("mysql", "whatever", nil)
	assert.Error(t, err)
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(&config.Config{RedisURL: "not-a-url://"}, nil)
	assert.Error(t, err)
}
