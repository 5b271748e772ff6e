package service

import (
	"context"
	"errors"
	"time"

	"prokatnik/internal/database"
	"prokatnik/internal/domain"
	"prokatnik/internal/events"
	"prokatnik/internal/metrics"
	"prokatnik/internal/models"

	"github.com/rs/zerolog"
)

// BookingService владеет жизненным циклом бронирований: создание, решение
// владельца, авторизация просмотра и выборки по фильтрам.
type BookingService struct {
	repo     domain.Repository
	cache    domain.SummaryCache
	eventBus domain.EventPublisher
	notify   domain.NotifyQueue
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, cache domain.SummaryCache, eventBus domain.EventPublisher, notify domain.NotifyQueue, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		notify:   notify,
		logger:   logger,
	}
}

// BookingCreate is the validated request body for a new booking.
type BookingCreate struct {
	Start  time.Time
	End    time.Time
	ItemID int64
}

// Create checks preconditions in a fixed order: the first failing one
// determines the error kind.
func (s *BookingService) Create(ctx context.Context, callerID int64, req BookingCreate) (*models.Booking, error) {
	user, err := s.repo.GetUser(ctx, callerID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, req.ItemID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("item not found")
	}
	if err != nil {
		return nil, err
	}

	if !item.Available {
		return nil, Validation("item is not available for booking")
	}

	// Равенство start и end допускается: отклоняем только end < start.
	if req.End.Before(req.Start) {
		return nil, Validation("booking end must not be before start")
	}

	// Владелец не бронирует свое: отвечаем NotFound, а не Forbidden, чтобы
	// не раскрывать существование вещи.
	if item.OwnerID == callerID {
		return nil, NotFound("no items available for booking")
	}

	booking := &models.Booking{
		Start:       req.Start,
		End:         req.End,
		ItemID:      item.ID,
		BookerID:    user.ID,
		Status:      models.StateWaiting,
		ItemName:    item.Name,
		ItemOwnerID: item.OwnerID,
		BookerName:  user.Name,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.invalidateSummaries(ctx, booking.ItemID)
	s.publishEvent(events.EventBookingCreated, booking)
	if s.notify != nil {
		if err := s.notify.EnqueueBookingCreated(ctx, booking); err != nil {
			s.logger.Warn().Err(err).Int64("booking_id", booking.ID).Msg("enqueue booking notification")
		}
	}

	return booking, nil
}

// Approve moves a waiting booking to approved or rejected. Only the item
// owner may decide, and only once.
func (s *BookingService) Approve(ctx context.Context, callerID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}

	if booking.ItemOwnerID != callerID {
		return nil, NotFound("no relation between booking and user")
	}
	if booking.Status != models.StateWaiting {
		return nil, Validation("booking status cannot be changed")
	}

	status := models.StateRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StateApproved
		eventType = events.EventBookingApproved
	}

	if err := s.repo.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	metrics.IncBookingDecision(string(status))
	s.invalidateSummaries(ctx, booking.ItemID)
	s.publishEvent(eventType, booking)
	if s.notify != nil {
		if err := s.notify.EnqueueBookingDecided(ctx, booking); err != nil {
			s.logger.Warn().Err(err).Int64("booking_id", booking.ID).Msg("enqueue decision notification")
		}
	}

	return booking, nil
}

// FindByID returns the booking to its booker or the item owner; anyone else
// gets NotFound, indistinguishable from a missing booking.
func (s *BookingService) FindByID(ctx context.Context, callerID, bookingID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}

	if booking.BookerID != callerID && booking.ItemOwnerID != callerID {
		return nil, NotFound("no relation between booking and user")
	}
	return booking, nil
}

// ListForBooker returns the caller's bookings classified by the state filter.
func (s *BookingService) ListForBooker(ctx context.Context, callerID int64, stateRaw string, from, size int) ([]models.Booking, error) {
	filter, err := s.checkListArgs(ctx, callerID, stateRaw, from, size)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch filter {
	case models.FilterAll:
		return s.repo.ListBookingsByBooker(ctx, callerID, size, from)
	case models.FilterCurrent:
		return s.repo.ListCurrentBookingsByBooker(ctx, callerID, now, size, from)
	case models.FilterPast:
		return s.repo.ListPastBookingsByBooker(ctx, callerID, now, size, from)
	case models.FilterFuture:
		return s.repo.ListFutureBookingsByBooker(ctx, callerID, now, size, from)
	default:
		status, _ := filter.StatusFor()
		return s.repo.ListBookingsByBookerAndStatus(ctx, callerID, status, size, from)
	}
}

// ListForOwner mirrors ListForBooker over the caller's inventory.
func (s *BookingService) ListForOwner(ctx context.Context, callerID int64, stateRaw string, from, size int) ([]models.Booking, error) {
	filter, err := s.checkListArgs(ctx, callerID, stateRaw, from, size)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch filter {
	case models.FilterAll:
		return s.repo.ListBookingsByOwner(ctx, callerID, size, from)
	case models.FilterCurrent:
		return s.repo.ListCurrentBookingsByOwner(ctx, callerID, now, size, from)
	case models.FilterPast:
		return s.repo.ListPastBookingsByOwner(ctx, callerID, now, size, from)
	case models.FilterFuture:
		return s.repo.ListFutureBookingsByOwner(ctx, callerID, now, size, from)
	default:
		status, _ := filter.StatusFor()
		return s.repo.ListBookingsByOwnerAndStatus(ctx, callerID, status, size, from)
	}
}

// ListAllForOwner returns the owner's complete ledger without paging. Used
// by the export endpoint.
func (s *BookingService) ListAllForOwner(ctx context.Context, callerID int64) ([]models.Booking, error) {
	exists, err := s.repo.UserExists(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, NotFound("user not found")
	}
	return s.repo.ListAllBookingsByOwner(ctx, callerID)
}

func (s *BookingService) checkListArgs(ctx context.Context, callerID int64, stateRaw string, from, size int) (models.StateFilter, error) {
	exists, err := s.repo.UserExists(ctx, callerID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", NotFound("user not found")
	}

	if from < 0 || size <= 0 {
		return "", Validation("invalid pagination parameters")
	}

	filter, err := models.ParseStateFilter(stateRaw)
	if err != nil {
		return "", Validation(err.Error())
	}
	return filter, nil
}

func (s *BookingService) invalidateSummaries(ctx context.Context, itemID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateItem(ctx, itemID); err != nil {
		s.logger.Warn().Err(err).Int64("item_id", itemID).Msg("invalidate summary cache")
	}
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}
	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		BookerID:   booking.BookerID,
		BookerName: booking.BookerName,
		ItemID:     booking.ItemID,
		ItemName:   booking.ItemName,
		OwnerID:    booking.ItemOwnerID,
		Status:     string(booking.Status),
		Start:      booking.Start,
		End:        booking.End,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish booking event")
	}
}
