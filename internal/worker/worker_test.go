package worker

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"prokatnik/internal/database"
	"prokatnik/internal/models"

	"github.com/rs/zerolog"
)

type fakeNotifier struct {
	err   error
	sent  []string
	calls int
}

func (f *fakeNotifier) Send(ctx context.Context, text string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testBooking(id int64) *models.Booking {
	now := time.Now()
	return &models.Booking{
		ID:         id,
		Start:      now.Add(24 * time.Hour),
		End:        now.Add(48 * time.Hour),
		ItemID:     10,
		BookerID:   1,
		Status:     models.StateWaiting,
		ItemName:   "camera",
		BookerName: "tester",
	}
}

func loadTaskStatus(t *testing.T, db *database.DB, id int64) (string, int, sql.NullTime) {
	t.Helper()
	pending, err := db.GetPendingNotifyTasks(context.Background(), 100)
	if err != nil {
		t.Fatalf("load pending: %v", err)
	}
	for _, task := range pending {
		if task.ID == id {
			var next sql.NullTime
			if task.NextRetryAt != nil {
				next = sql.NullTime{Time: *task.NextRetryAt, Valid: true}
			}
			return task.Status, task.RetryCount, next
		}
	}
	return "", 0, sql.NullTime{}
}

func TestProcessTaskSuccess(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	worker := NewNotifyWorker(db, notifier, nil, RetryPolicy{}, nil)

	ctx := context.Background()
	if err := worker.EnqueueBookingCreated(ctx, testBooking(1)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := worker.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	worker.processTask(ctx, &task)

	if notifier.calls != 1 {
		t.Fatalf("expected one send, got %d", notifier.calls)
	}
	if !strings.Contains(notifier.sent[0], "camera") {
		t.Fatalf("expected item name in message, got %q", notifier.sent[0])
	}

	// Завершенная задача уходит из pending выборки.
	if status, _, _ := loadTaskStatus(t, db, task.ID); status != "" {
		t.Fatalf("expected task gone from pending, got status %s", status)
	}
}

func TestProcessTaskRetry(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{err: errors.New("boom")}
	worker := NewNotifyWorker(db, notifier, nil, RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond}, nil)

	ctx := context.Background()
	if err := worker.EnqueueBookingDecided(ctx, testBooking(2)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := worker.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	worker.processTask(ctx, &task)

	time.Sleep(5 * time.Millisecond)
	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != models.TaskStatusRetry {
		t.Fatalf("expected status=retry, got %s", status)
	}
	if retryCount != 1 {
		t.Fatalf("expected retry_count=1, got %d", retryCount)
	}
	if !nextRetry.Valid {
		t.Fatalf("expected next_retry_at to be set")
	}
}

func TestProcessTaskFail(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{err: errors.New("fatal")}
	worker := NewNotifyWorker(db, notifier, nil, RetryPolicy{MaxRetries: 1}, nil)

	ctx := context.Background()
	if err := worker.EnqueueBookingCreated(ctx, testBooking(3)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := worker.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	worker.processTask(ctx, &task)

	// MaxRetries=1: первая же ошибка финальна, из pending задача уходит.
	if status, _, _ := loadTaskStatus(t, db, task.ID); status != "" {
		t.Fatalf("expected task out of pending, got status %s", status)
	}
}

func TestEnqueueRequiresBookingID(t *testing.T) {
	db := newTestDB(t)
	worker := NewNotifyWorker(db, &fakeNotifier{}, nil, RetryPolicy{}, nil)

	if err := worker.EnqueueBookingCreated(context.Background(), &models.Booking{}); err == nil {
		t.Fatalf("expected error for booking without id")
	}
}

func TestFormatMessageUnknownType(t *testing.T) {
	if _, err := formatMessage("bogus", notifyPayload{}); err == nil {
		t.Fatalf("expected error for unknown task type")
	}
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 5, InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: time.Second},
		{attempt: 1, want: time.Second},
		{attempt: 2, want: 2 * time.Second},
		{attempt: 3, want: 4 * time.Second},
		{attempt: 10, want: 10 * time.Second},
	}
	for _, tc := range cases {
		if got := policy.NextDelay(tc.attempt); got != tc.want {
			t.Fatalf("attempt %d: expected %v, got %v", tc.attempt, tc.want, got)
		}
	}

	// Нулевая политика дает секундную задержку, а не ноль.
	var zero RetryPolicy
	if got := zero.NextDelay(1); got != time.Second {
		t.Fatalf("expected 1s default delay, got %v", got)
	}
}
