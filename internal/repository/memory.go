package repository

import (
	"context"
	"sync"
	"time"

	"prokatnik/internal/domain"
)

// MemorySummaryCache is the in-process fallback behind the failover wrapper.
type MemorySummaryCache struct {
	entries sync.Map
	ttl     time.Duration
}

type summaryEntry struct {
	summaries *domain.ItemSummaries
	expiresAt time.Time
}

func NewMemorySummaryCache(ttl time.Duration) *MemorySummaryCache {
	return &MemorySummaryCache{ttl: ttl}
}

func (m *MemorySummaryCache) GetItemSummaries(ctx context.Context, itemID int64) (*domain.ItemSummaries, error) {
	val, ok := m.entries.Load(itemID)
	if !ok {
		return nil, nil
	}
	entry := val.(summaryEntry)
	if time.Now().After(entry.expiresAt) {
		m.entries.Delete(itemID)
		return nil, nil
	}
	return entry.summaries, nil
}

func (m *MemorySummaryCache) SetItemSummaries(ctx context.Context, itemID int64, summaries *domain.ItemSummaries) error {
	m.entries.Store(itemID, summaryEntry{
		summaries: summaries,
		expiresAt: time.Now().Add(m.ttl),
	})
	return nil
}

func (m *MemorySummaryCache) InvalidateItem(ctx context.Context, itemID int64) error {
	m.entries.Delete(itemID)
	return nil
}
