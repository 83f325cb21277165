package booking

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/suryastays/hotelbooking/internal/domain"
	"github.com/suryastays/hotelbooking/internal/kafka"
	"github.com/suryastays/hotelbooking/internal/logger"
	"github.com/suryastays/hotelbooking/internal/refund"
	"github.com/suryastays/hotelbooking/internal/repository"
)

// taxRate is the flat GST multiplier applied to the room price at checkout.
const taxRate = 1.18

// promoCodes maps a code to its flat discount in currency units.
var promoCodes = map[string]int64{
	"WELCOME50": 50,
}

// welcomeCode is auto-applied to a user's first booking when no code is given.
const welcomeCode = "WELCOME50"

type BookingUseCase interface {
	StageBooking(ctx context.Context, input StageBookingInput) (*domain.BookingDraft, error)
	Checkout(ctx context.Context, input CheckoutInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id string, input CancelBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context, userEmail string) ([]domain.Booking, error)
	ExpireStaleDrafts(ctx context.Context) (int64, error)
}

type Cache interface {
	AcquireRoomLock(ctx context.Context, hotelName, roomType, roomNumber string, checkIn time.Time, ttl time.Duration) (bool, error)
	ReleaseRoomLock(ctx context.Context, hotelName, roomType, roomNumber string, checkIn time.Time) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	drafts             repository.DraftRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	draftTTL           time.Duration
	roomLockTTL        time.Duration
	now                func() time.Time
	validate           *validator.Validate
}

type StageBookingInput struct {
	HotelName  string    `json:"hotel_name"`
	RoomType   string    `json:"room_type"`
	RoomNumber string    `json:"room_number"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Guests     int       `json:"guests"`
	RoomPrice  int64     `json:"room_price"`
	UserEmail  string    `json:"user_email"`
}

type CheckoutInput struct {
	DraftToken      string              `json:"draft_token"`
	GuestDetails    domain.GuestDetails `json:"guest_details"`
	PromoCode       string              `json:"promo_code"`
	PaymentMethod   string              `json:"payment_method"`
	SpecialRequests string              `json:"special_requests"`
	PolicyAccepted  bool                `json:"policy_accepted"`
	UserEmail       string              `json:"user_email"`
}

type CancelBookingInput struct {
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithClock overrides the wall clock, used by tests.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	drafts repository.DraftRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
	draftTTL, roomLockTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		drafts:      drafts,
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
		draftTTL:    draftTTL,
		roomLockTTL: roomLockTTL,
		now:         time.Now,
		validate:    validator.New(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// StageBooking runs the overlap guard and, if the room is free for the
// requested dates, writes a short-lived draft for checkout to complete.
// Nothing is written when the guard rejects.
func (s *BookingService) StageBooking(ctx context.Context, input StageBookingInput) (*domain.BookingDraft, error) {
	if !input.CheckOut.After(input.CheckIn) {
		return nil, domain.ErrInvalidDates
	}
	if input.Guests <= 0 {
		return nil, domain.ErrInvalidGuests
	}

	existing, err := s.bookings.ListActiveByRoom(ctx, input.HotelName, input.RoomType, input.RoomNumber)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].BlocksRoom(input.HotelName, input.RoomType, input.RoomNumber, input.CheckIn, input.CheckOut) {
			return nil, domain.ErrRoomAlreadyBooked
		}
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireRoomLock(ctx, input.HotelName, input.RoomType, input.RoomNumber, input.CheckIn, s.roomLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrRoomLocked
		}
		locked = true
	}

	draft := &domain.BookingDraft{
		Token:      uuid.NewString(),
		HotelName:  input.HotelName,
		RoomType:   input.RoomType,
		RoomNumber: input.RoomNumber,
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		Guests:     input.Guests,
		RoomPrice:  input.RoomPrice,
		UserEmail:  input.UserEmail,
		ExpiresAt:  s.now().Add(s.draftTTL),
	}
	if err := s.drafts.Create(ctx, draft); err != nil {
		if locked {
			_ = s.cache.ReleaseRoomLock(ctx, input.HotelName, input.RoomType, input.RoomNumber, input.CheckIn)
		}
		return nil, err
	}
	return draft, nil
}

// Checkout turns a staged draft into a confirmed booking. Guest details must
// be complete and the refund policy acknowledged; validation failures leave
// the draft and the booking collection untouched.
func (s *BookingService) Checkout(ctx context.Context, input CheckoutInput) (*domain.Booking, error) {
	if !input.PolicyAccepted {
		return nil, domain.ErrPolicyNotAccepted
	}
	if err := s.validate.Struct(input.GuestDetails); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMissingGuestDetails, err)
	}

	draft, err := s.drafts.GetByToken(ctx, input.DraftToken)
	if err != nil {
		return nil, err
	}
	if input.UserEmail != "" && draft.UserEmail != input.UserEmail {
		return nil, domain.ErrDraftNotFound
	}
	now := s.now()
	if now.After(draft.ExpiresAt) {
		return nil, domain.ErrDraftExpired
	}

	discount, code, err := s.resolveDiscount(ctx, input.PromoCode, draft.UserEmail)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:              fmt.Sprintf("BK%d", now.UnixMilli()),
		HotelName:       draft.HotelName,
		RoomType:        draft.RoomType,
		RoomNumber:      draft.RoomNumber,
		CheckIn:         draft.CheckIn,
		CheckOut:        draft.CheckOut,
		Guests:          draft.Guests,
		Status:          domain.BookingStatusConfirmed,
		RoomPrice:       draft.RoomPrice,
		PromoCode:       code,
		Discount:        discount,
		TotalAmount:     checkoutTotal(draft.RoomPrice, discount),
		PaymentMethod:   input.PaymentMethod,
		SpecialRequests: input.SpecialRequests,
		GuestDetails:    input.GuestDetails,
		UserEmail:       draft.UserEmail,
		BookingDate:     now,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	if err := s.drafts.Delete(ctx, draft.Token); err != nil {
		logger.Log.WithError(err).WithField("token", draft.Token).Warn("failed to delete consumed draft")
	}
	if s.cache != nil {
		_ = s.cache.ReleaseRoomLock(ctx, draft.HotelName, draft.RoomType, draft.RoomNumber, draft.CheckIn)
	}
	s.publish(ctx, "booking_confirmed", booking)
	return booking, nil
}

// CancelBooking moves a confirmed booking to its terminal cancelled state and
// attaches the refund computed from elapsed time since booking. Cancelling an
// already-cancelled booking returns the record unchanged.
func (s *BookingService) CancelBooking(ctx context.Context, id string, input CancelBookingInput) (*domain.Booking, error) {
	if !domain.IsValidCancellationReason(input.Reason) {
		return nil, domain.ErrInvalidCancellationReason
	}

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled {
		return current, nil
	}

	breakdown := refund.Calculate(current.TotalAmount, current.BookingDate, s.now())
	updated, err := s.bookings.Cancel(ctx, id, domain.Cancellation{
		Reason:           input.Reason,
		Details:          strings.TrimSpace(input.Details),
		RefundAmount:     breakdown.Amount,
		RefundPercentage: breakdown.Percentage,
	})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.ReleaseRoomLock(ctx, updated.HotelName, updated.RoomType, updated.RoomNumber, updated.CheckIn)
	}
	s.publish(ctx, "booking_cancelled", updated)
	return updated, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) ListBookings(ctx context.Context, userEmail string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userEmail)
}

// ExpireStaleDrafts removes drafts whose checkout never completed. Their room
// locks expire on their own in Redis.
func (s *BookingService) ExpireStaleDrafts(ctx context.Context) (int64, error) {
	return s.drafts.DeleteExpiredBefore(ctx, s.now())
}

// resolveDiscount validates an explicit promo code, or auto-applies the
// welcome code to a user's first booking when none was given.
func (s *BookingService) resolveDiscount(ctx context.Context, code, userEmail string) (int64, string, error) {
	if code != "" {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		discount, ok := promoCodes[normalized]
		if !ok {
			return 0, "", domain.ErrInvalidPromoCode
		}
		return discount, normalized, nil
	}

	count, err := s.bookings.CountByUser(ctx, userEmail)
	if err != nil {
		return 0, "", err
	}
	if count == 0 {
		return promoCodes[welcomeCode], welcomeCode, nil
	}
	return 0, "", nil
}

// checkoutTotal applies the flat tax to the room price, then the discount.
func checkoutTotal(roomPrice, discount int64) int64 {
	return int64(math.Round(float64(roomPrice)*taxRate)) - discount
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingID:   b.ID,
		HotelName:   b.HotelName,
		RoomType:    b.RoomType,
		RoomNumber:  b.RoomNumber,
		CheckIn:     b.CheckIn,
		CheckOut:    b.CheckOut,
		UserEmail:   b.UserEmail,
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount,
	}
	if b.Cancellation != nil {
		event.RefundAmount = b.Cancellation.RefundAmount
		event.RefundPercentage = b.Cancellation.RefundPercentage
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, b.ID, event); err != nil {
		logger.Log.WithError(err).WithField("booking_id", b.ID).Warnf("failed to publish %s event", eventType)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, b.ID, event); err != nil {
			logger.Log.WithError(err).WithField("booking_id", b.ID).Warnf("failed to publish %s notification", eventType)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
