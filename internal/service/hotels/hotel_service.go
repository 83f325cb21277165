package hotels

import (
	"context"

	"github.com/suryastays/hotelbooking/internal/domain"
	"github.com/suryastays/hotelbooking/internal/repository"
)

type HotelUseCase interface {
	List(ctx context.Context) ([]domain.Hotel, error)
	Search(ctx context.Context, location string) ([]domain.Hotel, error)
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
	ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error)
}

type Cache interface {
	GetHotels(ctx context.Context) ([]domain.Hotel, error)
	SetHotels(ctx context.Context, hotels []domain.Hotel) error
}

type HotelService struct {
	repo  repository.HotelRepository
	cache Cache
}

func NewHotelService(repo repository.HotelRepository, cache Cache) *HotelService {
	return &HotelService{repo: repo, cache: cache}
}

func (s *HotelService) List(ctx context.Context) ([]domain.Hotel, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetHotels(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	hotels, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetHotels(ctx, hotels)
	}
	return hotels, nil
}

// Search bypasses the cache; location queries hit the database directly.
func (s *HotelService) Search(ctx context.Context, location string) ([]domain.Hotel, error) {
	if location == "" {
		return s.List(ctx)
	}
	return s.repo.Search(ctx, location)
}

func (s *HotelService) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *HotelService) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	return s.repo.ListRooms(ctx, hotelID)
}

var _ HotelUseCase = (*HotelService)(nil)
