package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// GuestDetails is the checkout contact block. Every field is required
// before a draft can become a confirmed booking.
type GuestDetails struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	Pincode   string `json:"pincode" validate:"required"`
}

type Booking struct {
	ID              string
	HotelName       string
	RoomType        string
	RoomNumber      string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Status          BookingStatus
	RoomPrice       int64
	PromoCode       string
	Discount        int64
	TotalAmount     int64
	PaymentMethod   string
	SpecialRequests string
	GuestDetails    GuestDetails
	UserEmail       string
	BookingDate     time.Time
	Cancellation    *Cancellation
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Cancellation holds the fields attached to a booking when it is cancelled.
// A nil Cancellation means the booking is still active.
type Cancellation struct {
	Reason           string
	Details          string
	RefundAmount     int64
	RefundPercentage int
}

// BookingDraft is the staged pre-booking held between room selection and
// checkout. It occupies no dates itself; the overlap guard already ran when
// it was created, and a Redis room lock keeps the room from being
// double-staged until the draft expires or checkout completes.
type BookingDraft struct {
	Token      string
	HotelName  string
	RoomType   string
	RoomNumber string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	RoomPrice  int64
	UserEmail  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// CancellationReasons is the closed set accepted by the cancel action.
var CancellationReasons = []string{
	"change_of_plans",
	"found_better_deal",
	"travel_restrictions",
	"emergency",
	"wrong_booking",
	"health_issues",
	"other",
}

func IsValidCancellationReason(reason string) bool {
	for _, r := range CancellationReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// RangesOverlap reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A stay checking out on day X and one checking in
// on day X do not overlap.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// BlocksRoom reports whether this booking prevents a new stay in the given
// room over [checkIn, checkOut). Cancelled bookings never block.
func (b *Booking) BlocksRoom(hotelName, roomType, roomNumber string, checkIn, checkOut time.Time) bool {
	if b.Status == BookingStatusCancelled {
		return false
	}
	if b.HotelName != hotelName || b.RoomType != roomType || b.RoomNumber != roomNumber {
		return false
	}
	return RangesOverlap(checkIn, checkOut, b.CheckIn, b.CheckOut)
}
