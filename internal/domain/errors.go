package domain

import "errors"

var (
	ErrHotelNotFound             = errors.New("hotel not found")
	ErrRoomNotFound              = errors.New("room not found")
	ErrBookingNotFound           = errors.New("booking not found")
	ErrDraftNotFound             = errors.New("booking draft not found")
	ErrDraftExpired              = errors.New("booking draft expired")
	ErrRoomAlreadyBooked         = errors.New("room is already booked for the selected dates")
	ErrRoomLocked                = errors.New("room is held by another checkout in progress")
	ErrInvalidDates              = errors.New("check-out must be after check-in")
	ErrInvalidGuests             = errors.New("guest count must be positive")
	ErrMissingGuestDetails       = errors.New("all guest details are required")
	ErrPolicyNotAccepted         = errors.New("refund policy must be accepted")
	ErrInvalidPromoCode          = errors.New("promo code is not valid")
	ErrInvalidCancellationReason = errors.New("cancellation reason is not valid")
	ErrEmailTaken                = errors.New("email is already registered")
	ErrInvalidCredentials        = errors.New("invalid email or password")
)
