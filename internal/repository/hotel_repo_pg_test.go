package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewHotelRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewHotelRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewUserRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewUserRepository(pool)
	assert.NotNil(t, repo)
}
