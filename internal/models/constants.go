package models

const (
	// DefaultPageFrom и DefaultPageSize применяются, когда клиент не передал
	// параметры пагинации.
	DefaultPageFrom = 0
	DefaultPageSize = 10

	// SummaryCacheTTL время жизни кэша next/last бронирований вещи.
	SummaryCacheTTL = 60 // секунды

	// WorkerQueueSize размер внутренней очереди воркера уведомлений.
	WorkerQueueSize = 128
)

const (
	TaskStatusPending   = "pending"
	TaskStatusRetry     = "retry"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)
