package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBookingEvent(t *testing.T) {
	payload := []byte(`{"type":"booking_submitted","booking_id":7,"reference":"ref-7","purchaser_id":42,"status":"PENDING","total_units":2,"total_cents":3000,"occurred_at":"2026-08-01T10:00:00Z"}`)

	event, err := decodeBookingEvent(payload)
	require.NoError(t, err)

	assert.Equal(t, EventTypeBookingSubmitted, event.Type)
	assert.Equal(t, int64(7), event.BookingID)
	assert.Equal(t, "ref-7", event.Reference)
	assert.Equal(t, int64(42), event.PurchaserID)
	assert.Equal(t, "PENDING", event.Status)
	assert.Equal(t, 2, event.TotalUnits)
	assert.Equal(t, int64(3000), event.TotalCents)
	assert.True(t, event.OccurredAt.Equal(time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)))
}

func TestDecodeBookingEvent_RejectionCarriesReason(t *testing.T) {
	payload := []byte(`{"type":"booking_rejected","booking_id":5,"status":"REJECTED","reject_reason":"duplicate payment"}`)

	event, err := decodeBookingEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, EventTypeBookingRejected, event.Type)
	assert.Equal(t, "duplicate payment", event.RejectReason)
}

func TestDecodeBookingEvent_BadPayload(t *testing.T) {
	_, err := decodeBookingEvent([]byte("not json"))
	assert.Error(t, err)
}
