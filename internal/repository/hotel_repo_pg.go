package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/suryastays/hotelbooking/internal/domain"
)

type HotelRepository interface {
	List(ctx context.Context) ([]domain.Hotel, error)
	Search(ctx context.Context, location string) ([]domain.Hotel, error)
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
	ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error)
}

type PGHotelRepository struct {
	db *pgxpool.Pool
}

func NewHotelRepository(db *pgxpool.Pool) HotelRepository {
	return &PGHotelRepository{db: db}
}

func (r *PGHotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, location, address, phone, email, rating, created_at, updated_at FROM hotels ORDER BY rating DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHotels(rows)
}

func (r *PGHotelRepository) Search(ctx context.Context, location string) ([]domain.Hotel, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, location, address, phone, email, rating, created_at, updated_at
		FROM hotels WHERE location ILIKE '%' || $1 || '%' ORDER BY rating DESC, name`, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHotels(rows)
}

func (r *PGHotelRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, location, address, phone, email, rating, created_at, updated_at FROM hotels WHERE id=$1`, id)
	var h domain.Hotel
	if err := row.Scan(&h.ID, &h.Name, &h.Location, &h.Address, &h.Phone, &h.Email, &h.Rating, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *PGHotelRepository) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT id, hotel_id, name, room_number, price_units, capacity, created_at, updated_at FROM rooms WHERE hotel_id=$1 ORDER BY price_units`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.Name, &rm.RoomNumber, &rm.PriceUnits, &rm.Capacity, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}

func collectHotels(rows pgx.Rows) ([]domain.Hotel, error) {
	hotels := make([]domain.Hotel, 0)
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Location, &h.Address, &h.Phone, &h.Email, &h.Rating, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

var _ HotelRepository = (*PGHotelRepository)(nil)
