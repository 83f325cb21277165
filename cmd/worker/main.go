package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/suryastays/hotelbooking/config"
	"github.com/suryastays/hotelbooking/internal/cache"
	"github.com/suryastays/hotelbooking/internal/email"
	"github.com/suryastays/hotelbooking/internal/kafka"
	"github.com/suryastays/hotelbooking/internal/logger"
	"github.com/suryastays/hotelbooking/internal/repository"
	"github.com/suryastays/hotelbooking/internal/service/booking"
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

	bookingRepo := repository.NewBookingRepository(pool)
	draftRepo := repository.NewDraftRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		draftRepo,
		redisCache,
		nil,
		"",
		time.Duration(cfg.Booking.DraftTTLMinutes)*time.Minute,
		time.Duration(cfg.Booking.RoomLockTTLMinutes)*time.Minute,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender(cfg.SMTP)

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Log.WithError(err).Warn("decode booking event")
				return nil
			}
			if err := sender.Send(event); err != nil {
				logger.Log.WithError(err).WithField("booking_id", event.BookingID).Warn("send notification email")
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).Error("consumer stopped")
		}
	}()

	sweep := time.Duration(cfg.Worker.DraftSweepMinutes) * time.Minute
	if sweep <= 0 {
		sweep = 5 * time.Minute
	}
	ticker := time.NewTicker(sweep)
	defer ticker.Stop()

	logger.Log.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("worker stopped")
			return
		case <-ticker.C:
			removed, err := bookingService.ExpireStaleDrafts(ctx)
			if err != nil {
				logger.Log.WithError(err).Warn("draft sweep failed")
				continue
			}
			if removed > 0 {
				logger.Log.WithField("removed", removed).Info("swept stale booking drafts")
			}
		}
	}
}
