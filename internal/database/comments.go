package database

import (
	"context"
	"fmt"

	"prokatnik/internal/models"
)

const commentSelect = `
    SELECT c.id, c.text, c.item_id, c.author_id, c.created, u.name
    FROM comments c
    JOIN users u ON u.id = c.author_id`

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	result, err := db.db.ExecContext(ctx,
		`INSERT INTO comments (text, item_id, author_id, created)
         VALUES (?, ?, ?, ?)`,
		comment.Text, comment.ItemID, comment.AuthorID, comment.Created.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = id
	return nil
}

func (db *DB) ListCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	return db.queryComments(ctx,
		commentSelect+` WHERE c.item_id = ? ORDER BY c.id`, itemID)
}

// ListCommentsByItemOwner возвращает комментарии ко всем вещам владельца,
// пакетная выборка для списка инвентаря.
func (db *DB) ListCommentsByItemOwner(ctx context.Context, ownerID int64) ([]models.Comment, error) {
	return db.queryComments(ctx,
		commentSelect+` JOIN items i ON i.id = c.item_id
         WHERE i.owner_id = ? ORDER BY c.id`, ownerID)
}

func (db *DB) queryComments(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.Text,
			&comment.ItemID,
			&comment.AuthorID,
			&comment.Created,
			&comment.AuthorName,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
