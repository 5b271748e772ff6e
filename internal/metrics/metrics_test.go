package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	// counters should not panic
	assert.NotPanics(t, func() {
		IncHTTP("/bookings", "200")
		IncBookingCreated()
		IncBookingDecision("approved")
		IncCommentPosted()
		IncCacheOutcome("hit")
	})
}
