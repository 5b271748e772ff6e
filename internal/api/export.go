package api

import (
	"fmt"
	"net/http"
	"time"

	"prokatnik/internal/export"
)

// handleExportBookings streams the caller's booking ledger as an xlsx file.
func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	callerID, err := userIDFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.bookings.ListAllForOwner(r.Context(), callerID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	if err := export.WriteBookingsWorkbook(w, bookings); err != nil {
		s.logger.Error().Err(err).Int64("owner_id", callerID).Msg("export bookings")
	}
}
