package domain

import "time"

type Hotel struct {
	ID        int64
	Name      string
	Location  string
	Address   string
	Phone     string
	Email     string
	Rating    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Room struct {
	ID         int64
	HotelID    int64
	Name       string
	RoomNumber string
	PriceUnits int64
	Capacity   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
