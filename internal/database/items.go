package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prokatnik/internal/models"
)

const itemColumns = `id, name, description, available, owner_id, request_id`

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	result, err := db.db.ExecContext(ctx,
		`INSERT INTO items (name, description, available, owner_id, request_id)
         VALUES (?, ?, ?, ?, ?)`,
		item.Name, item.Description, item.Available, item.OwnerID, item.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	row := db.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// UpdateItem перезаписывает редактируемые поля вещи.
func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	result, err := db.db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`,
		item.Name, item.Description, item.Available, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListItemsByOwner возвращает инвентарь владельца, упорядоченный по id.
func (db *DB) ListItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]models.Item, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
         WHERE owner_id = ?
         ORDER BY id
         LIMIT ? OFFSET ?`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by owner: %w", err)
	}
	return collectItems(rows)
}

// SearchItems ищет доступные вещи по подстроке в имени или описании.
func (db *DB) SearchItems(ctx context.Context, text string, limit, offset int) ([]models.Item, error) {
	pattern := "%" + text + "%"
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
         WHERE available = 1
           AND (LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?))
         ORDER BY id
         LIMIT ? OFFSET ?`,
		pattern, pattern, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return collectItems(rows)
}

// ListItemsByRequest возвращает вещи, выставленные в ответ на запрос.
func (db *DB) ListItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE request_id = ? ORDER BY id`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by request: %w", err)
	}
	return collectItems(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var requestID sql.NullInt64
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Available,
		&item.OwnerID,
		&requestID,
	)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		item.RequestID = &requestID.Int64
	}
	return &item, nil
}

func collectItems(rows *sql.Rows) ([]models.Item, error) {
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
