package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/suryastays/hotelbooking/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userEmail string) ([]domain.Booking, error)
	ListActiveByRoom(ctx context.Context, hotelName, roomType, roomNumber string) ([]domain.Booking, error)
	CountByUser(ctx context.Context, userEmail string) (int, error)
	Cancel(ctx context.Context, id string, c domain.Cancellation) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, hotel_name, room_type, room_number, check_in, check_out, guests, status,
	room_price, promo_code, discount, total_amount, payment_method, special_requests,
	guest_first_name, guest_last_name, guest_email, guest_phone, guest_address, guest_city, guest_pincode,
	user_email, booking_date, cancellation_reason, cancellation_details, refund_amount, refund_percentage,
	created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	b.Status = domain.BookingStatusConfirmed
	return r.db.QueryRow(ctx, `INSERT INTO bookings (id, hotel_name, room_type, room_number, check_in, check_out, guests, status,
			room_price, promo_code, discount, total_amount, payment_method, special_requests,
			guest_first_name, guest_last_name, guest_email, guest_phone, guest_address, guest_city, guest_pincode,
			user_email, booking_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING created_at, updated_at`,
		b.ID, b.HotelName, b.RoomType, b.RoomNumber, b.CheckIn, b.CheckOut, b.Guests, b.Status,
		b.RoomPrice, b.PromoCode, b.Discount, b.TotalAmount, b.PaymentMethod, b.SpecialRequests,
		b.GuestDetails.FirstName, b.GuestDetails.LastName, b.GuestDetails.Email, b.GuestDetails.Phone,
		b.GuestDetails.Address, b.GuestDetails.City, b.GuestDetails.Pincode,
		b.UserEmail, b.BookingDate).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userEmail string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_email=$1 ORDER BY booking_date DESC`, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListActiveByRoom(ctx context.Context, hotelName, roomType, roomNumber string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE hotel_name=$1 AND room_type=$2 AND room_number=$3 AND status <> $4`,
		hotelName, roomType, roomNumber, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PGBookingRepository) CountByUser(ctx context.Context, userEmail string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE user_email=$1`, userEmail).Scan(&count)
	return count, err
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id string, c domain.Cancellation) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings
		SET status=$1, cancellation_reason=$2, cancellation_details=$3, refund_amount=$4, refund_percentage=$5, updated_at=now()
		WHERE id=$6
		RETURNING `+bookingColumns,
		domain.BookingStatusCancelled, c.Reason, c.Details, c.RefundAmount, c.RefundPercentage, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b                domain.Booking
		cancelReason     *string
		cancelDetails    *string
		refundAmount     *int64
		refundPercentage *int
	)
	if err := row.Scan(&b.ID, &b.HotelName, &b.RoomType, &b.RoomNumber, &b.CheckIn, &b.CheckOut, &b.Guests, &b.Status,
		&b.RoomPrice, &b.PromoCode, &b.Discount, &b.TotalAmount, &b.PaymentMethod, &b.SpecialRequests,
		&b.GuestDetails.FirstName, &b.GuestDetails.LastName, &b.GuestDetails.Email, &b.GuestDetails.Phone,
		&b.GuestDetails.Address, &b.GuestDetails.City, &b.GuestDetails.Pincode,
		&b.UserEmail, &b.BookingDate, &cancelReason, &cancelDetails, &refundAmount, &refundPercentage,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if cancelReason != nil {
		b.Cancellation = &domain.Cancellation{Reason: *cancelReason}
		if cancelDetails != nil {
			b.Cancellation.Details = *cancelDetails
		}
		if refundAmount != nil {
			b.Cancellation.RefundAmount = *refundAmount
		}
		if refundPercentage != nil {
			b.Cancellation.RefundPercentage = *refundPercentage
		}
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
