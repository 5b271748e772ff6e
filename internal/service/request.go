package service

import (
	"context"
	"errors"
	"time"

	"prokatnik/internal/database"
	"prokatnik/internal/domain"
	"prokatnik/internal/models"

	"github.com/rs/zerolog"
)

// RequestService — запросы на вещи, которых еще нет в каталоге.
type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger}
}

// RequestView is a request together with the items listed in answer to it.
type RequestView struct {
	Request models.ItemRequest
	Items   []models.Item
}

func (s *RequestService) Create(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error) {
	exists, err := s.repo.UserExists(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, NotFound("user not found")
	}

	request := &models.ItemRequest{
		Description: description,
		RequesterID: requesterID,
		Created:     time.Now(),
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) GetByID(ctx context.Context, callerID, requestID int64) (*RequestView, error) {
	if err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequest(ctx, requestID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NotFound("request not found")
	}
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, *request)
}

// ListOwn возвращает собственные запросы с ответами, новые первыми.
func (s *RequestService) ListOwn(ctx context.Context, callerID int64) ([]RequestView, error) {
	if err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListRequestsByRequester(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.withItemsAll(ctx, requests)
}

// ListOthers возвращает чужие запросы постранично.
func (s *RequestService) ListOthers(ctx context.Context, callerID int64, from, size int) ([]RequestView, error) {
	if err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}
	if from < 0 || size <= 0 {
		return nil, Validation("invalid pagination parameters")
	}

	requests, err := s.repo.ListOtherRequests(ctx, callerID, size, from)
	if err != nil {
		return nil, err
	}
	return s.withItemsAll(ctx, requests)
}

func (s *RequestService) requireUser(ctx context.Context, id int64) error {
	exists, err := s.repo.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return NotFound("user not found")
	}
	return nil
}

func (s *RequestService) withItems(ctx context.Context, request models.ItemRequest) (*RequestView, error) {
	items, err := s.repo.ListItemsByRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	return &RequestView{Request: request, Items: items}, nil
}

func (s *RequestService) withItemsAll(ctx context.Context, requests []models.ItemRequest) ([]RequestView, error) {
	views := make([]RequestView, 0, len(requests))
	for _, request := range requests {
		view, err := s.withItems(ctx, request)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
