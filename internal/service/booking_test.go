package service

import (
	"context"
	"testing"
	"time"

	"prokatnik/internal/database"
	"prokatnik/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newBookingService(db *database.DB) *BookingService {
	logger := zerolog.Nop()
	return NewBookingService(db, nil, nil, nil, &logger)
}

func seedUser(t *testing.T, db *database.DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func seedItem(t *testing.T, db *database.DB, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{Name: name, Description: name + " description", Available: available, OwnerID: ownerID}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func seedBooking(t *testing.T, db *database.DB, itemID, bookerID int64, start, end time.Time, status models.BookingState) *models.Booking {
	t.Helper()
	booking := &models.Booking{Start: start, End: end, ItemID: itemID, BookerID: bookerID, Status: status}
	require.NoError(t, db.CreateBooking(context.Background(), booking))
	return booking
}

func TestBookingCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com")
	booker := seedUser(t, db, "Booker", "booker@example.com")
	item := seedItem(t, db, owner.ID, "Дрель", true)
	unavailable := seedItem(t, db, owner.ID, "Сломанная", false)

	start := time.Now().Add(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Create(ctx, 999, BookingCreate{Start: start, End: end, ItemID: item.ID})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.EqualError(t, err, "user not found")
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := svc.Create(ctx, booker.ID, BookingCreate{Start: start, End: end, ItemID: 999})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.EqualError(t, err, "item not found")
	})

	t.Run("unavailable item", func(t *testing.T) {
		_, err := svc.Create(ctx, booker.ID, BookingCreate{Start: start, End: end, ItemID: unavailable.ID})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := svc.Create(ctx, booker.ID, BookingCreate{Start: end, End: start, ItemID: item.ID})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("owner books own item", func(t *testing.T) {
		_, err := svc.Create(ctx, owner.ID, BookingCreate{Start: start, End: end, ItemID: item.ID})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("success", func(t *testing.T) {
		booking, err := svc.Create(ctx, booker.ID, BookingCreate{Start: start, End: end, ItemID: item.ID})
		require.NoError(t, err)
		require.NotZero(t, booking.ID)
		assert.Equal(t, models.StateWaiting, booking.Status)
		assert.Equal(t, item.ID, booking.ItemID)
		assert.Equal(t, booker.ID, booking.BookerID)

		persisted, err := db.GetBooking(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateWaiting, persisted.Status)
	})

	t.Run("zero-length window accepted", func(t *testing.T) {
		booking, err := svc.Create(ctx, booker.ID, BookingCreate{Start: start, End: start, ItemID: item.ID})
		require.NoError(t, err)
		assert.Equal(t, models.StateWaiting, booking.Status)
	})
}

func TestBookingApprove(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com")
	booker := seedUser(t, db, "Booker", "booker@example.com")
	item := seedItem(t, db, owner.ID, "Пила", true)
	booking := seedBooking(t, db, item.ID, booker.ID,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour), models.StateWaiting)

	t.Run("unknown booking", func(t *testing.T) {
		_, err := svc.Approve(ctx, owner.ID, 999, true)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("caller is not the owner", func(t *testing.T) {
		_, err := svc.Approve(ctx, booker.ID, booking.ID, true)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("owner approves", func(t *testing.T) {
		got, err := svc.Approve(ctx, owner.ID, booking.ID, true)
		require.NoError(t, err)
		assert.Equal(t, models.StateApproved, got.Status)
	})

	t.Run("second decision is rejected", func(t *testing.T) {
		_, err := svc.Approve(ctx, owner.ID, booking.ID, false)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.EqualError(t, err, "booking status cannot be changed")
	})

	t.Run("owner rejects", func(t *testing.T) {
		other := seedBooking(t, db, item.ID, booker.ID,
			time.Now().Add(3*time.Hour), time.Now().Add(4*time.Hour), models.StateWaiting)
		got, err := svc.Approve(ctx, owner.ID, other.ID, false)
		require.NoError(t, err)
		assert.Equal(t, models.StateRejected, got.Status)
	})
}

func TestBookingFindByID(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com")
	booker := seedUser(t, db, "Booker", "booker@example.com")
	stranger := seedUser(t, db, "Stranger", "stranger@example.com")
	item := seedItem(t, db, owner.ID, "Лобзик", true)
	booking := seedBooking(t, db, item.ID, booker.ID,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour), models.StateWaiting)

	got, err := svc.FindByID(ctx, booker.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	got, err = svc.FindByID(ctx, owner.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	// Третьему лицу чужое бронирование неотличимо от несуществующего.
	_, err = svc.FindByID(ctx, stranger.ID, booking.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = svc.FindByID(ctx, booker.ID, 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestBookingListFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com")
	booker := seedUser(t, db, "Booker", "booker@example.com")
	item := seedItem(t, db, owner.ID, "Перфоратор", true)

	now := time.Now()
	past := seedBooking(t, db, item.ID, booker.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StateApproved)
	current := seedBooking(t, db, item.ID, booker.ID, now.Add(-time.Hour), now.Add(time.Hour), models.StateApproved)
	future := seedBooking(t, db, item.ID, booker.ID, now.Add(24*time.Hour), now.Add(48*time.Hour), models.StateWaiting)
	rejected := seedBooking(t, db, item.ID, booker.ID, now.Add(72*time.Hour), now.Add(96*time.Hour), models.StateRejected)

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.ListForBooker(ctx, 999, "ALL", 0, 10)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("invalid pagination", func(t *testing.T) {
		_, err := svc.ListForBooker(ctx, booker.ID, "ALL", -1, 10)
		require.Error(t, err)
		assert.True(t, IsValidation(err))

		_, err = svc.ListForBooker(ctx, booker.ID, "ALL", 0, 0)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("unknown state keeps original casing", func(t *testing.T) {
		_, err := svc.ListForBooker(ctx, booker.ID, "bogus", 0, 10)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.EqualError(t, err, "Unknown state: bogus")
	})

	t.Run("all", func(t *testing.T) {
		got, err := svc.ListForBooker(ctx, booker.ID, "ALL", 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, rejected.ID, got[0].ID)
	})

	t.Run("filter is case-insensitive", func(t *testing.T) {
		got, err := svc.ListForBooker(ctx, booker.ID, "current", 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, current.ID, got[0].ID)
	})

	t.Run("past", func(t *testing.T) {
		got, err := svc.ListForBooker(ctx, booker.ID, "PAST", 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, past.ID, got[0].ID)
	})

	t.Run("future", func(t *testing.T) {
		got, err := svc.ListForBooker(ctx, booker.ID, "FUTURE", 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, rejected.ID, got[0].ID)
		assert.Equal(t, future.ID, got[1].ID)
	})

	t.Run("approved dispatches to status query", func(t *testing.T) {
		got, err := svc.ListForBooker(ctx, booker.ID, "APPROVED", 0, 10)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("canceled yields empty, not an error", func(t *testing.T) {
		got, err := svc.ListForBooker(ctx, booker.ID, "CANCELED", 0, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("owner mirror", func(t *testing.T) {
		got, err := svc.ListForOwner(ctx, owner.ID, "WAITING", 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, future.ID, got[0].ID)

		got, err = svc.ListForOwner(ctx, booker.ID, "ALL", 0, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestListAllForOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com")
	booker := seedUser(t, db, "Booker", "booker@example.com")
	item := seedItem(t, db, owner.ID, "Шуруповерт", true)
	seedBooking(t, db, item.ID, booker.ID,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour), models.StateWaiting)

	got, err := svc.ListAllForOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ListAllForOwner(ctx, 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
