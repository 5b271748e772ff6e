package database

import (
	"context"
	"testing"
	"time"

	"prokatnik/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListComments(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	author := createTestUser(t, db, "Author", "author@example.com")
	item := createTestItem(t, db, owner.ID, "Дрель", true)
	otherItem := createTestItem(t, db, owner.ID, "Пила", true)

	first := &models.Comment{Text: "отличная вещь", ItemID: item.ID, AuthorID: author.ID, Created: time.Now()}
	require.NoError(t, db.CreateComment(ctx, first))
	require.NotZero(t, first.ID)

	second := &models.Comment{Text: "работает", ItemID: otherItem.ID, AuthorID: author.ID, Created: time.Now()}
	require.NoError(t, db.CreateComment(ctx, second))

	comments, err := db.ListCommentsByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "отличная вещь", comments[0].Text)
	assert.Equal(t, "Author", comments[0].AuthorName)

	// Пакетная выборка по владельцу собирает комментарии всех его вещей.
	all, err := db.ListCommentsByItemOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
