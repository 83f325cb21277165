package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/suryastays/hotelbooking/internal/domain"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userEmail string) ([]domain.Booking, error) {
	args := m.Called(ctx, userEmail)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListActiveByRoom(ctx context.Context, hotelName, roomType, roomNumber string) ([]domain.Booking, error) {
	args := m.Called(ctx, hotelName, roomType, roomNumber)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountByUser(ctx context.Context, userEmail string) (int, error) {
	args := m.Called(ctx, userEmail)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id string, c domain.Cancellation) (*domain.Booking, error) {
	args := m.Called(ctx, id, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) Create(ctx context.Context, draft *domain.BookingDraft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockDraftRepository) GetByToken(ctx context.Context, token string) (*domain.BookingDraft, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftRepository) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockDraftRepository) DeleteExpiredBefore(ctx context.Context, deadline time.Time) (int64, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).(int64), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireRoomLock(ctx context.Context, hotelName, roomType, roomNumber string, checkIn time.Time, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, hotelName, roomType, roomNumber, checkIn, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseRoomLock(ctx context.Context, hotelName, roomType, roomNumber string, checkIn time.Time) error {
	args := m.Called(ctx, hotelName, roomType, roomNumber, checkIn)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var (
	fixedNow = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	checkIn  = time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	checkOut = time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
)

func newService(bookings *MockBookingRepository, drafts *MockDraftRepository, cache Cache, producer Producer) *BookingService {
	return NewBookingService(
		bookings, drafts, cache, producer,
		"booking-events",
		15*time.Minute, 15*time.Minute,
		WithClock(func() time.Time { return fixedNow }),
	)
}

func stageInput() StageBookingInput {
	return StageBookingInput{
		HotelName:  "Grand Palace",
		RoomType:   "Deluxe Room",
		RoomNumber: "204",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
		RoomPrice:  1000,
		UserEmail:  "guest@example.com",
	}
}

func guestDetails() domain.GuestDetails {
	return domain.GuestDetails{
		FirstName: "Asha",
		LastName:  "Verma",
		Email:     "guest@example.com",
		Phone:     "9876543210",
		Address:   "12 MG Road",
		City:      "Bengaluru",
		Pincode:   "560001",
	}
}

func TestStageBooking_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}
	cache := &MockCache{}

	bookings.On("ListActiveByRoom", mock.Anything, "Grand Palace", "Deluxe Room", "204").
		Return([]domain.Booking{}, nil)
	cache.On("AcquireRoomLock", mock.Anything, "Grand Palace", "Deluxe Room", "204", checkIn, 15*time.Minute).
		Return(true, nil)
	drafts.On("Create", mock.Anything, mock.AnythingOfType("*domain.BookingDraft")).Return(nil)

	svc := newService(bookings, drafts, cache, nil)
	draft, err := svc.StageBooking(context.Background(), stageInput())

	assert.NoError(t, err)
	assert.NotEmpty(t, draft.Token)
	assert.Equal(t, fixedNow.Add(15*time.Minute), draft.ExpiresAt)
	bookings.AssertExpectations(t)
	drafts.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestStageBooking_RejectsOverlap(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}

	existing := domain.Booking{
		HotelName:  "Grand Palace",
		RoomType:   "Deluxe Room",
		RoomNumber: "204",
		CheckIn:    time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
		Status:     domain.BookingStatusConfirmed,
	}
	bookings.On("ListActiveByRoom", mock.Anything, "Grand Palace", "Deluxe Room", "204").
		Return([]domain.Booking{existing}, nil)

	svc := newService(bookings, drafts, nil, nil)
	draft, err := svc.StageBooking(context.Background(), stageInput())

	assert.ErrorIs(t, err, domain.ErrRoomAlreadyBooked)
	assert.Nil(t, draft)
	drafts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStageBooking_TouchingBoundaryDoesNotOverlap(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}

	// Existing stay ends the day the new one begins.
	existing := domain.Booking{
		HotelName:  "Grand Palace",
		RoomType:   "Deluxe Room",
		RoomNumber: "204",
		CheckIn:    time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		CheckOut:   checkIn,
		Status:     domain.BookingStatusConfirmed,
	}
	bookings.On("ListActiveByRoom", mock.Anything, "Grand Palace", "Deluxe Room", "204").
		Return([]domain.Booking{existing}, nil)
	drafts.On("Create", mock.Anything, mock.AnythingOfType("*domain.BookingDraft")).Return(nil)

	svc := newService(bookings, drafts, nil, nil)
	draft, err := svc.StageBooking(context.Background(), stageInput())

	assert.NoError(t, err)
	assert.NotNil(t, draft)
}

func TestStageBooking_CancelledBookingDoesNotBlock(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}

	cancelled := domain.Booking{
		HotelName:  "Grand Palace",
		RoomType:   "Deluxe Room",
		RoomNumber: "204",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     domain.BookingStatusCancelled,
	}
	bookings.On("ListActiveByRoom", mock.Anything, "Grand Palace", "Deluxe Room", "204").
		Return([]domain.Booking{cancelled}, nil)
	drafts.On("Create", mock.Anything, mock.AnythingOfType("*domain.BookingDraft")).Return(nil)

	svc := newService(bookings, drafts, nil, nil)
	draft, err := svc.StageBooking(context.Background(), stageInput())

	assert.NoError(t, err)
	assert.NotNil(t, draft)
}

func TestStageBooking_RejectsLockedRoom(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}
	cache := &MockCache{}

	bookings.On("ListActiveByRoom", mock.Anything, "Grand Palace", "Deluxe Room", "204").
		Return([]domain.Booking{}, nil)
	cache.On("AcquireRoomLock", mock.Anything, "Grand Palace", "Deluxe Room", "204", checkIn, 15*time.Minute).
		Return(false, nil)

	svc := newService(bookings, drafts, cache, nil)
	_, err := svc.StageBooking(context.Background(), stageInput())

	assert.ErrorIs(t, err, domain.ErrRoomLocked)
	drafts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStageBooking_RejectsInvalidDates(t *testing.T) {
	svc := newService(&MockBookingRepository{}, &MockDraftRepository{}, nil, nil)

	input := stageInput()
	input.CheckOut = input.CheckIn
	_, err := svc.StageBooking(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidDates)

	input = stageInput()
	input.Guests = 0
	_, err = svc.StageBooking(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidGuests)
}

func storedDraft() *domain.BookingDraft {
	return &domain.BookingDraft{
		Token:      "draft-token",
		HotelName:  "Grand Palace",
		RoomType:   "Deluxe Room",
		RoomNumber: "204",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
		RoomPrice:  1000,
		UserEmail:  "guest@example.com",
		ExpiresAt:  fixedNow.Add(10 * time.Minute),
	}
}

func TestCheckout_ComputesTaxedTotalWithDiscount(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}
	cache := &MockCache{}
	producer := &MockProducer{}

	drafts.On("GetByToken", mock.Anything, "draft-token").Return(storedDraft(), nil)
	drafts.On("Delete", mock.Anything, "draft-token").Return(nil)
	bookings.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil)
	cache.On("ReleaseRoomLock", mock.Anything, "Grand Palace", "Deluxe Room", "204", checkIn).Return(nil)
	producer.On("Publish", mock.Anything, "booking-events", mock.Anything, mock.Anything).Return(nil)

	svc := newService(bookings, drafts, cache, producer)
	got, err := svc.Checkout(context.Background(), CheckoutInput{
		DraftToken:     "draft-token",
		GuestDetails:   guestDetails(),
		PromoCode:      "WELCOME50",
		PaymentMethod:  "card",
		PolicyAccepted: true,
	})

	assert.NoError(t, err)
	// round(1000 * 1.18) - 50
	assert.Equal(t, int64(1130), got.TotalAmount)
	assert.Equal(t, int64(50), got.Discount)
	assert.Equal(t, "WELCOME50", got.PromoCode)
	assert.Equal(t, domain.BookingStatusConfirmed, got.Status)
	assert.Equal(t, fixedNow, got.BookingDate)
	assert.Regexp(t, `^BK\d+$`, got.ID)
	bookings.AssertExpectations(t)
	drafts.AssertExpectations(t)
}

func TestCheckout_AutoAppliesWelcomeCodeForFirstBooking(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}

	drafts.On("GetByToken", mock.Anything, "draft-token").Return(storedDraft(), nil)
	drafts.On("Delete", mock.Anything, "draft-token").Return(nil)
	bookings.On("CountByUser", mock.Anything, "guest@example.com").Return(0, nil)
	bookings.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil)

	svc := newService(bookings, drafts, nil, nil)
	got, err := svc.Checkout(context.Background(), CheckoutInput{
		DraftToken:     "draft-token",
		GuestDetails:   guestDetails(),
		PaymentMethod:  "card",
		PolicyAccepted: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "WELCOME50", got.PromoCode)
	assert.Equal(t, int64(1130), got.TotalAmount)
}

func TestCheckout_NoDiscountForReturningUser(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}

	drafts.On("GetByToken", mock.Anything, "draft-token").Return(storedDraft(), nil)
	drafts.On("Delete", mock.Anything, "draft-token").Return(nil)
	bookings.On("CountByUser", mock.Anything, "guest@example.com").Return(3, nil)
	bookings.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil)

	svc := newService(bookings, drafts, nil, nil)
	got, err := svc.Checkout(context.Background(), CheckoutInput{
		DraftToken:     "draft-token",
		GuestDetails:   guestDetails(),
		PaymentMethod:  "card",
		PolicyAccepted: true,
	})

	assert.NoError(t, err)
	assert.Empty(t, got.PromoCode)
	assert.Equal(t, int64(1180), got.TotalAmount)
}

func TestCheckout_RejectsMissingGuestDetails(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}

	svc := newService(bookings, drafts, nil, nil)
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		DraftToken:     "draft-token",
		GuestDetails:   domain.GuestDetails{},
		PolicyAccepted: true,
	})

	assert.ErrorIs(t, err, domain.ErrMissingGuestDetails)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_RejectsUnacceptedPolicy(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}

	svc := newService(bookings, drafts, nil, nil)
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		DraftToken:   "draft-token",
		GuestDetails: guestDetails(),
	})

	assert.ErrorIs(t, err, domain.ErrPolicyNotAccepted)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_RejectsInvalidPromoCode(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}

	drafts.On("GetByToken", mock.Anything, "draft-token").Return(storedDraft(), nil)

	svc := newService(bookings, drafts, nil, nil)
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		DraftToken:     "draft-token",
		GuestDetails:   guestDetails(),
		PromoCode:      "NOTACODE",
		PolicyAccepted: true,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidPromoCode)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_RejectsExpiredDraft(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}

	expired := storedDraft()
	expired.ExpiresAt = fixedNow.Add(-time.Minute)
	drafts.On("GetByToken", mock.Anything, "draft-token").Return(expired, nil)

	svc := newService(bookings, drafts, nil, nil)
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		DraftToken:     "draft-token",
		GuestDetails:   guestDetails(),
		PolicyAccepted: true,
	})

	assert.ErrorIs(t, err, domain.ErrDraftExpired)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_RejectsUnknownDraft(t *testing.T) {
	drafts := &MockDraftRepository{}
	drafts.On("GetByToken", mock.Anything, "missing").Return(nil, domain.ErrDraftNotFound)

	svc := newService(&MockBookingRepository{}, drafts, nil, nil)
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		DraftToken:     "missing",
		GuestDetails:   guestDetails(),
		PolicyAccepted: true,
	})

	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:          "BK1705752000000",
		HotelName:   "Grand Palace",
		RoomType:    "Deluxe Room",
		RoomNumber:  "204",
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      2,
		Status:      domain.BookingStatusConfirmed,
		TotalAmount: 999,
		UserEmail:   "guest@example.com",
		BookingDate: fixedNow.Add(-2 * 24 * time.Hour),
	}
}

func TestCancelBooking_AttachesRefund(t *testing.T) {
	bookings := &MockBookingRepository{}
	cache := &MockCache{}
	producer := &MockProducer{}

	current := confirmedBooking()
	bookings.On("GetByID", mock.Anything, current.ID).Return(current, nil)

	// Booked two days ago: 75% bracket, round(999 * 0.75) = 749.
	wantCancellation := domain.Cancellation{
		Reason:           "change_of_plans",
		Details:          "travel dates moved",
		RefundAmount:     749,
		RefundPercentage: 75,
	}
	cancelled := *current
	cancelled.Status = domain.BookingStatusCancelled
	cancelled.Cancellation = &wantCancellation
	bookings.On("Cancel", mock.Anything, current.ID, wantCancellation).Return(&cancelled, nil)
	cache.On("ReleaseRoomLock", mock.Anything, "Grand Palace", "Deluxe Room", "204", checkIn).Return(nil)
	producer.On("Publish", mock.Anything, "booking-events", current.ID, mock.Anything).Return(nil)

	svc := newService(bookings, &MockDraftRepository{}, cache, producer)
	got, err := svc.CancelBooking(context.Background(), current.ID, CancelBookingInput{
		Reason:  "change_of_plans",
		Details: "travel dates moved",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, got.Status)
	assert.Equal(t, int64(749), got.Cancellation.RefundAmount)
	assert.Equal(t, 75, got.Cancellation.RefundPercentage)
	bookings.AssertExpectations(t)
}

func TestCancelBooking_SecondCancelIsNoOp(t *testing.T) {
	bookings := &MockBookingRepository{}

	cancelled := confirmedBooking()
	cancelled.Status = domain.BookingStatusCancelled
	cancelled.Cancellation = &domain.Cancellation{Reason: "emergency", RefundAmount: 749, RefundPercentage: 75}
	bookings.On("GetByID", mock.Anything, cancelled.ID).Return(cancelled, nil)

	svc := newService(bookings, &MockDraftRepository{}, nil, nil)
	got, err := svc.CancelBooking(context.Background(), cancelled.ID, CancelBookingInput{Reason: "other"})

	assert.NoError(t, err)
	assert.Equal(t, "emergency", got.Cancellation.Reason)
	bookings.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_RejectsUnknownReason(t *testing.T) {
	bookings := &MockBookingRepository{}

	svc := newService(bookings, &MockDraftRepository{}, nil, nil)
	_, err := svc.CancelBooking(context.Background(), "BK1", CancelBookingInput{Reason: "because"})

	assert.ErrorIs(t, err, domain.ErrInvalidCancellationReason)
	bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetBooking_NotFound(t *testing.T) {
	bookings := &MockBookingRepository{}
	bookings.On("GetByID", mock.Anything, "BK404").Return(nil, domain.ErrBookingNotFound)

	svc := newService(bookings, &MockDraftRepository{}, nil, nil)
	_, err := svc.GetBooking(context.Background(), "BK404")

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestExpireStaleDrafts(t *testing.T) {
	drafts := &MockDraftRepository{}
	drafts.On("DeleteExpiredBefore", mock.Anything, fixedNow).Return(int64(3), nil)

	svc := newService(&MockBookingRepository{}, drafts, nil, nil)
	removed, err := svc.ExpireStaleDrafts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), removed)
}

func TestStageBooking_DraftCreateFailureReleasesLock(t *testing.T) {
	bookings := &MockBookingRepository{}
	drafts := &MockDraftRepository{}
	cache := &MockCache{}

	bookings.On("ListActiveByRoom", mock.Anything, "Grand Palace", "Deluxe Room", "204").
		Return([]domain.Booking{}, nil)
	cache.On("AcquireRoomLock", mock.Anything, "Grand Palace", "Deluxe Room", "204", checkIn, 15*time.Minute).
		Return(true, nil)
	cache.On("ReleaseRoomLock", mock.Anything, "Grand Palace", "Deluxe Room", "204", checkIn).Return(nil)
	drafts.On("Create", mock.Anything, mock.AnythingOfType("*domain.BookingDraft")).
		Return(errors.New("insert failed"))

	svc := newService(bookings, drafts, cache, nil)
	_, err := svc.StageBooking(context.Background(), stageInput())

	assert.Error(t, err)
	cache.AssertCalled(t, "ReleaseRoomLock", mock.Anything, "Grand Palace", "Deluxe Room", "204", checkIn)
}
