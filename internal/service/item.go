package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"prokatnik/internal/database"
	"prokatnik/internal/domain"
	"prokatnik/internal/events"
	"prokatnik/internal/metrics"
	"prokatnik/internal/models"

	"github.com/rs/zerolog"
)

// ItemService владеет вещами, построением витрины (next/last бронирования,
// комментарии) и правом оставлять комментарии.
type ItemService struct {
	repo     domain.Repository
	cache    domain.SummaryCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, cache domain.SummaryCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
	}
}

// ItemCreate is the validated request body for a new item.
type ItemCreate struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

// ItemUpdate carries owner edits; nil fields stay untouched.
type ItemUpdate struct {
	Name        *string
	Description *string
	Available   *bool
}

// ItemView is an item enriched with owner-only booking summaries and
// comments.
type ItemView struct {
	Item        models.Item
	NextBooking *models.BookingSummary
	LastBooking *models.BookingSummary
	Comments    []models.Comment
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, req ItemCreate) (*models.Item, error) {
	exists, err := s.repo.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, NotFound("user not found")
	}

	if req.RequestID != nil {
		if _, err := s.repo.GetRequest(ctx, *req.RequestID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, NotFound("request not found")
			}
			return nil, err
		}
	}

	item := &models.Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update применяет частичное редактирование. Чужая вещь неотличима от
// отсутствующей.
func (s *ItemService) Update(ctx context.Context, callerID, itemID int64, upd ItemUpdate) (*models.Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("item not found")
	}
	if err != nil {
		return nil, err
	}

	if item.OwnerID != callerID {
		return nil, NotFound("no item for this user")
	}

	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Available != nil {
		item.Available = *upd.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetView builds the availability view of a single item for a viewer.
func (s *ItemService) GetView(ctx context.Context, viewerID, itemID int64) (*ItemView, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("item not found")
	}
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.ListCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	view := &ItemView{Item: *item, Comments: comments}

	// Сводки по бронированиям видит только владелец.
	if item.OwnerID != viewerID {
		return view, nil
	}

	if cached := s.cachedSummaries(ctx, itemID); cached != nil {
		view.NextBooking = cached.Next
		view.LastBooking = cached.Last
		return view, nil
	}

	bookings, err := s.repo.ListBookingsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	next, last := deriveSummaries(itemID, bookings, time.Now())
	view.NextBooking = next
	view.LastBooking = last
	s.storeSummaries(ctx, itemID, next, last)

	return view, nil
}

// ListViews returns the caller's inventory as availability views. Bookings
// and comments are fetched once for the whole inventory and filtered per
// item in memory.
func (s *ItemService) ListViews(ctx context.Context, ownerID int64, from, size int) ([]ItemView, error) {
	if from < 0 || size <= 0 {
		return nil, Validation("invalid pagination parameters")
	}

	items, err := s.repo.ListItemsByOwner(ctx, ownerID, size, from)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListAllBookingsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.ListCommentsByItemOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		next, last := deriveSummaries(item.ID, bookings, now)
		views = append(views, ItemView{
			Item:        item,
			NextBooking: next,
			LastBooking: last,
			Comments:    filterComments(item.ID, comments),
		})
	}
	return views, nil
}

// Search ищет доступные вещи по тексту. Пустой запрос дает пустой список.
func (s *ItemService) Search(ctx context.Context, text string, from, size int) ([]models.Item, error) {
	if from < 0 || size <= 0 {
		return nil, Validation("invalid pagination parameters")
	}
	if strings.TrimSpace(text) == "" {
		return []models.Item{}, nil
	}
	return s.repo.SearchItems(ctx, text, size, from)
}

// PostComment lets a user comment on an item only with a qualifying booking
// behind them.
func (s *ItemService) PostComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	author, err := s.repo.GetUser(ctx, authorID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("item not found")
	}
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.FirstBookingByItemAndBooker(ctx, item.ID, author.ID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("no booking for this user and item")
	}
	if err != nil {
		return nil, err
	}

	if booking.Status != models.StateApproved || !booking.End.After(time.Now()) {
		return nil, Validation("user is not allowed to comment")
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     item.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Created:    time.Now(),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	metrics.IncCommentPosted()
	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventCommentPosted, comment)
	}
	return comment, nil
}

func (s *ItemService) cachedSummaries(ctx context.Context, itemID int64) *domain.ItemSummaries {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.GetItemSummaries(ctx, itemID)
	if err != nil {
		metrics.IncCacheOutcome("error")
		s.logger.Warn().Err(err).Int64("item_id", itemID).Msg("summary cache read")
		return nil
	}
	if cached == nil {
		metrics.IncCacheOutcome("miss")
		return nil
	}
	metrics.IncCacheOutcome("hit")
	return cached
}

func (s *ItemService) storeSummaries(ctx context.Context, itemID int64, next, last *models.BookingSummary) {
	if s.cache == nil {
		return
	}
	err := s.cache.SetItemSummaries(ctx, itemID, &domain.ItemSummaries{Next: next, Last: last})
	if err != nil {
		s.logger.Warn().Err(err).Int64("item_id", itemID).Msg("summary cache write")
	}
}

// deriveSummaries derives the owner-only booking summaries for one item from
// a booking slice that may span a whole inventory.
//
// nextBooking: start strictly after now, minimal END (not start).
// lastBooking: approved, ended before now, maximal end.
func deriveSummaries(itemID int64, bookings []models.Booking, now time.Time) (next, last *models.BookingSummary) {
	var nextB, lastB *models.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.ItemID != itemID {
			continue
		}
		if b.Start.After(now) {
			if nextB == nil || b.End.Before(nextB.End) {
				nextB = b
			}
		}
		if b.Status == models.StateApproved && b.End.Before(now) {
			if lastB == nil || b.End.After(lastB.End) {
				lastB = b
			}
		}
	}
	return nextB.Summary(), lastB.Summary()
}

func filterComments(itemID int64, comments []models.Comment) []models.Comment {
	var out []models.Comment
	for _, c := range comments {
		if c.ItemID == itemID {
			out = append(out, c)
		}
	}
	return out
}
