package export

import (
	"bytes"
	"testing"
	"time"

	"prokatnik/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBookingsWorkbook(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{ID: 1, ItemName: "Дрель", BookerName: "Ivan", Start: now, End: now.Add(24 * time.Hour), Status: models.StateApproved},
		{ID: 2, ItemName: "Пила", BookerName: "Petr", Start: now, End: now.Add(48 * time.Hour), Status: models.StateWaiting},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookingsWorkbook(&buf, bookings))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue(bookingsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Дрель", got)

	got, err = f.GetCellValue(bookingsSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "Petr", got)

	got, err = f.GetCellValue(bookingsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", got)
}

func TestWriteBookingsWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBookingsWorkbook(&buf, nil))
	assert.NotZero(t, buf.Len())
}
