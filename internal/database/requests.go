package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prokatnik/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	result, err := db.db.ExecContext(ctx,
		`INSERT INTO requests (description, requester_id, created) VALUES (?, ?, ?)`,
		request.Description, request.RequesterID, request.Created.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var request models.ItemRequest
	err := db.db.QueryRowContext(ctx,
		`SELECT id, description, requester_id, created FROM requests WHERE id = ?`, id,
	).Scan(&request.ID, &request.Description, &request.RequesterID, &request.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &request, nil
}

// ListRequestsByRequester возвращает собственные запросы, новые первыми.
func (db *DB) ListRequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error) {
	return db.queryRequests(ctx,
		`SELECT id, description, requester_id, created FROM requests
         WHERE requester_id = ? ORDER BY created DESC`, requesterID)
}

// ListOtherRequests возвращает чужие запросы постранично, новые первыми.
func (db *DB) ListOtherRequests(ctx context.Context, userID int64, limit, offset int) ([]models.ItemRequest, error) {
	return db.queryRequests(ctx,
		`SELECT id, description, requester_id, created FROM requests
         WHERE requester_id != ? ORDER BY created DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...any) ([]models.ItemRequest, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []models.ItemRequest
	for rows.Next() {
		var request models.ItemRequest
		err := rows.Scan(&request.ID, &request.Description, &request.RequesterID, &request.Created)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
