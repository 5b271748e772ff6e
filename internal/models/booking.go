package models

import "time"

type Booking struct {
	ID       int64        `json:"id"`
	Start    time.Time    `json:"start"`
	End      time.Time    `json:"end"`
	ItemID   int64        `json:"item_id"`
	BookerID int64        `json:"booker_id"`
	Status   BookingState `json:"status"`

	// Денормализованные поля, заполняются джойнами в хранилище.
	ItemName    string `json:"item_name,omitempty"`
	ItemOwnerID int64  `json:"item_owner_id,omitempty"`
	BookerName  string `json:"booker_name,omitempty"`
}

// BookingSummary is the owner-only short form attached to item views.
type BookingSummary struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func (b *Booking) Summary() *BookingSummary {
	if b == nil {
		return nil
	}
	return &BookingSummary{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}
