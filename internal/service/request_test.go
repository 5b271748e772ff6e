package service

import (
	"context"
	"testing"
	"time"

	"prokatnik/internal/database"
	"prokatnik/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestService(db *database.DB) *RequestService {
	logger := zerolog.Nop()
	return NewRequestService(db, &logger)
}

func TestRequestCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := newRequestService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, 999, "нужна дрель")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	requester := seedUser(t, db, "Requester", "req@example.com")
	request, err := svc.Create(ctx, requester.ID, "нужна дрель")
	require.NoError(t, err)
	require.NotZero(t, request.ID)
	assert.Equal(t, requester.ID, request.RequesterID)
	assert.False(t, request.Created.IsZero())
}

func TestRequestGetByID(t *testing.T) {
	db := setupTestDB(t)
	svc := newRequestService(db)
	ctx := context.Background()

	requester := seedUser(t, db, "Requester", "req@example.com")
	owner := seedUser(t, db, "Owner", "owner@example.com")

	request, err := svc.Create(ctx, requester.ID, "нужен перфоратор")
	require.NoError(t, err)

	answered := &models.Item{Name: "Перфоратор", Description: "мощный", Available: true, OwnerID: owner.ID, RequestID: &request.ID}
	require.NoError(t, db.CreateItem(ctx, answered))

	view, err := svc.GetByID(ctx, owner.ID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, view.Request.ID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, answered.ID, view.Items[0].ID)

	_, err = svc.GetByID(ctx, owner.ID, 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = svc.GetByID(ctx, 999, request.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestRequestLists(t *testing.T) {
	db := setupTestDB(t)
	svc := newRequestService(db)
	ctx := context.Background()

	requester := seedUser(t, db, "Requester", "req@example.com")
	other := seedUser(t, db, "Other", "other@example.com")

	first, err := svc.Create(ctx, requester.ID, "первый запрос")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.Create(ctx, requester.ID, "второй запрос")
	require.NoError(t, err)

	t.Run("own, newest first", func(t *testing.T) {
		views, err := svc.ListOwn(ctx, requester.ID)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, second.ID, views[0].Request.ID)
		assert.Equal(t, first.ID, views[1].Request.ID)
	})

	t.Run("others excludes own", func(t *testing.T) {
		views, err := svc.ListOthers(ctx, other.ID, 0, 10)
		require.NoError(t, err)
		assert.Len(t, views, 2)

		views, err = svc.ListOthers(ctx, requester.ID, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		_, err := svc.ListOthers(ctx, other.ID, -1, 10)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})
}
