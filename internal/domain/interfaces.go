package domain

import (
	"context"
	"time"

	"prokatnik/internal/models"
)

// Repository is the storage contract the services depend on. *database.DB
// implements it; tests may substitute an in-memory build of the same schema.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error

	// Items
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	ListItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]models.Item, error)
	SearchItems(ctx context.Context, text string, limit, offset int) ([]models.Item, error)
	ListItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error)

	// Booking ledger
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingState) error
	ListBookingsByBooker(ctx context.Context, bookerID int64, limit, offset int) ([]models.Booking, error)
	ListCurrentBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, limit, offset int) ([]models.Booking, error)
	ListPastBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, limit, offset int) ([]models.Booking, error)
	ListFutureBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, limit, offset int) ([]models.Booking, error)
	ListBookingsByBookerAndStatus(ctx context.Context, bookerID int64, status models.BookingState, limit, offset int) ([]models.Booking, error)
	ListBookingsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]models.Booking, error)
	ListCurrentBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, limit, offset int) ([]models.Booking, error)
	ListPastBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, limit, offset int) ([]models.Booking, error)
	ListFutureBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, limit, offset int) ([]models.Booking, error)
	ListBookingsByOwnerAndStatus(ctx context.Context, ownerID int64, status models.BookingState, limit, offset int) ([]models.Booking, error)
	ListAllBookingsByOwner(ctx context.Context, ownerID int64) ([]models.Booking, error)
	ListBookingsByItem(ctx context.Context, itemID int64) ([]models.Booking, error)
	FirstBookingByItemAndBooker(ctx context.Context, itemID, bookerID int64) (*models.Booking, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)
	ListCommentsByItemOwner(ctx context.Context, ownerID int64) ([]models.Comment, error)

	// Requests
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	ListRequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error)
	ListOtherRequests(ctx context.Context, userID int64, limit, offset int) ([]models.ItemRequest, error)
}

// ItemSummaries is the cached owner-only view payload for one item.
type ItemSummaries struct {
	Next *models.BookingSummary `json:"next"`
	Last *models.BookingSummary `json:"last"`
}

// SummaryCache caches derived next/last booking summaries per item.
// A nil result without error means cache miss.
type SummaryCache interface {
	GetItemSummaries(ctx context.Context, itemID int64) (*ItemSummaries, error)
	SetItemSummaries(ctx context.Context, itemID int64, summaries *ItemSummaries) error
	InvalidateItem(ctx context.Context, itemID int64) error
}

// Notifier delivers a booking notification to the operations channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// NotifyQueue accepts booking lifecycle events for async delivery.
type NotifyQueue interface {
	EnqueueBookingCreated(ctx context.Context, booking *models.Booking) error
	EnqueueBookingDecided(ctx context.Context, booking *models.Booking) error
}

// EventPublisher is the in-process event bus contract.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}
