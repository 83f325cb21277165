package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/suryastays/hotelbooking/internal/kafka"
)

func TestCompose_Confirmed(t *testing.T) {
	subject, body := compose(kafka.BookingEvent{
		Type:        "booking_confirmed",
		BookingID:   "BK1705752000000",
		HotelName:   "Grand Palace",
		RoomType:    "Deluxe Room",
		RoomNumber:  "204",
		CheckIn:     time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		TotalAmount: 1130,
	})

	assert.Equal(t, "Booking confirmed: BK1705752000000", subject)
	assert.Contains(t, body, "Grand Palace")
	assert.Contains(t, body, "10 Feb 2024")
	assert.Contains(t, body, "1130")
}

func TestCompose_Cancelled(t *testing.T) {
	subject, body := compose(kafka.BookingEvent{
		Type:             "booking_cancelled",
		BookingID:        "BK1",
		HotelName:        "Grand Palace",
		RefundAmount:     749,
		RefundPercentage: 75,
	})

	assert.Equal(t, "Booking cancelled: BK1", subject)
	assert.Contains(t, body, "75% refund")
	assert.Contains(t, body, "749")
}

func TestCompose_UnknownTypeIsSkipped(t *testing.T) {
	subject, _ := compose(kafka.BookingEvent{Type: "booking_staged"})
	assert.Empty(t, subject)
}
