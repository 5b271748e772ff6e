package repository

import (
	"context"
	"sync/atomic"
	"time"

	"prokatnik/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverSummaryCache prefers the primary (redis) cache and falls back to
// the in-memory cache while the primary is down. Recovery is probed at most
// once a minute.
type FailoverSummaryCache struct {
	primary   domain.SummaryCache
	fallback  domain.SummaryCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverSummaryCache(primary, fallback domain.SummaryCache, logger *zerolog.Logger) *FailoverSummaryCache {
	return &FailoverSummaryCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverSummaryCache) GetItemSummaries(ctx context.Context, itemID int64) (*domain.ItemSummaries, error) {
	if f.primaryUsable() {
		summaries, err := f.primary.GetItemSummaries(ctx, itemID)
		if err == nil {
			f.markUp()
			return summaries, nil
		}
		f.markDown(err)
	}
	return f.fallback.GetItemSummaries(ctx, itemID)
}

func (f *FailoverSummaryCache) SetItemSummaries(ctx context.Context, itemID int64, summaries *domain.ItemSummaries) error {
	if f.primaryUsable() {
		err := f.primary.SetItemSummaries(ctx, itemID, summaries)
		if err == nil {
			f.markUp()
			return nil
		}
		f.markDown(err)
	}
	return f.fallback.SetItemSummaries(ctx, itemID, summaries)
}

func (f *FailoverSummaryCache) InvalidateItem(ctx context.Context, itemID int64) error {
	// Инвалидация идет в обе стороны: после failover в памяти могла остаться
	// устаревшая запись.
	var primaryErr error
	if f.primaryUsable() {
		primaryErr = f.primary.InvalidateItem(ctx, itemID)
		if primaryErr == nil {
			f.markUp()
		} else {
			f.markDown(primaryErr)
		}
	}
	if err := f.fallback.InvalidateItem(ctx, itemID); err != nil {
		return err
	}
	return primaryErr
}

// primaryUsable reports whether the primary should be tried: either it is
// believed up, or the recovery probe interval has passed.
func (f *FailoverSummaryCache) primaryUsable() bool {
	if !f.isDown.Load() {
		return true
	}
	last := time.Unix(f.lastCheck.Load(), 0)
	return time.Since(last) > time.Minute
}

func (f *FailoverSummaryCache) markUp() {
	f.isDown.Store(false)
}

func (f *FailoverSummaryCache) markDown(err error) {
	f.logger.Error().Err(err).Msg("primary summary cache failed, falling back to memory")
	f.isDown.Store(true)
	f.lastCheck.Store(time.Now().Unix())
}
