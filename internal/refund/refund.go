// Package refund computes cancellation refunds from the elapsed wall-clock
// time between booking and cancellation.
package refund

import (
	"math"
	"time"
)

type Breakdown struct {
	Amount     int64  `json:"refund_amount"`
	Percentage int    `json:"refund_percentage"`
	Reason     string `json:"reason"`
}

// Calculate maps elapsed time between bookingDate and cancellationDate to a
// refund bracket. Days are whole 24h periods of elapsed time, not calendar-day
// boundaries: a cancellation 23h59m after booking is still day 0. A
// cancellation clock behind the booking clock is clamped to the same-day
// bracket. The amount is rounded to the nearest whole currency unit.
func Calculate(totalAmount int64, bookingDate, cancellationDate time.Time) Breakdown {
	days := int(math.Floor(cancellationDate.Sub(bookingDate).Hours() / 24))
	if days < 0 {
		days = 0
	}

	var (
		pct    int
		reason string
	)
	switch {
	case days == 0:
		pct, reason = 100, "Cancelled on booking day"
	case days <= 1:
		pct, reason = 90, "Cancelled within 24 hours"
	case days <= 3:
		pct, reason = 75, "Cancelled within 3 days"
	case days <= 7:
		pct, reason = 50, "Cancelled within 7 days"
	case days <= 14:
		pct, reason = 25, "Cancelled within 14 days"
	default:
		pct, reason = 0, "Cancelled after 14 days"
	}

	amount := int64(math.Round(float64(totalAmount) * float64(pct) / 100))
	return Breakdown{Amount: amount, Percentage: pct, Reason: reason}
}

// PolicyText is the customer-facing cancellation policy shown before checkout.
func PolicyText() string {
	return `Cancellation & Refund Policy

We understand that plans can change. Here's our refund policy:

- Same day cancellation: 100% refund
- Within 24 hours: 90% refund
- Within 3 days: 75% refund
- Within 7 days: 50% refund
- Within 14 days: 25% refund
- After 14 days: No refund

Refunds will be processed within 5-7 business days to the original payment method.

Important notes:
- Refund calculations are based on the time elapsed from booking date to cancellation date
- Convenience fees and processing charges are non-refundable
- Special offers and promotional bookings may have different cancellation terms`
}
