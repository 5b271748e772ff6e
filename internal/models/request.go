package models

import "time"

// ItemRequest is a wish for an item that is not listed yet. Owners answer a
// request by creating items that reference it.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	Created     time.Time `json:"created"`
}
