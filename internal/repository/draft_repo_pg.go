package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/suryastays/hotelbooking/internal/domain"
)

type DraftRepository interface {
	Create(ctx context.Context, draft *domain.BookingDraft) error
	GetByToken(ctx context.Context, token string) (*domain.BookingDraft, error)
	Delete(ctx context.Context, token string) error
	DeleteExpiredBefore(ctx context.Context, deadline time.Time) (int64, error)
}

type PGDraftRepository struct {
	db *pgxpool.Pool
}

func NewDraftRepository(db *pgxpool.Pool) DraftRepository {
	return &PGDraftRepository{db: db}
}

func (r *PGDraftRepository) Create(ctx context.Context, d *domain.BookingDraft) error {
	return r.db.QueryRow(ctx, `INSERT INTO booking_drafts (token, hotel_name, room_type, room_number, check_in, check_out, guests, room_price, user_email, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		d.Token, d.HotelName, d.RoomType, d.RoomNumber, d.CheckIn, d.CheckOut, d.Guests, d.RoomPrice, d.UserEmail, d.ExpiresAt).
		Scan(&d.CreatedAt)
}

func (r *PGDraftRepository) GetByToken(ctx context.Context, token string) (*domain.BookingDraft, error) {
	row := r.db.QueryRow(ctx, `SELECT token, hotel_name, room_type, room_number, check_in, check_out, guests, room_price, user_email, expires_at, created_at
		FROM booking_drafts WHERE token=$1`, token)
	var d domain.BookingDraft
	if err := row.Scan(&d.Token, &d.HotelName, &d.RoomType, &d.RoomNumber, &d.CheckIn, &d.CheckOut, &d.Guests, &d.RoomPrice, &d.UserEmail, &d.ExpiresAt, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *PGDraftRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM booking_drafts WHERE token=$1`, token)
	return err
}

func (r *PGDraftRepository) DeleteExpiredBefore(ctx context.Context, deadline time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM booking_drafts WHERE expires_at <= $1`, deadline)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

var _ DraftRepository = (*PGDraftRepository)(nil)
