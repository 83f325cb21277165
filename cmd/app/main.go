package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/suryastays/hotelbooking/config"
	"github.com/suryastays/hotelbooking/internal/bootstrap"
	"github.com/suryastays/hotelbooking/internal/cache"
	"github.com/suryastays/hotelbooking/internal/kafka"
	"github.com/suryastays/hotelbooking/internal/logger"
	"github.com/suryastays/hotelbooking/internal/repository"
	"github.com/suryastays/hotelbooking/internal/service/auth"
	"github.com/suryastays/hotelbooking/internal/service/booking"
	"github.com/suryastays/hotelbooking/internal/service/hotels"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Init(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.HotelsCacheTTLSecs)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	hotelRepo := repository.NewHotelRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	draftRepo := repository.NewDraftRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	hotelService := hotels.NewHotelService(hotelRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		draftRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.DraftTTLMinutes)*time.Minute,
		time.Duration(cfg.Booking.RoomLockTTLMinutes)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	authService := auth.NewAuthService(userRepo, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Hotels:   hotelService,
		Bookings: bookingService,
		Auth:     authService,
		Redis:    redisCache.Client(),
	})
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}
