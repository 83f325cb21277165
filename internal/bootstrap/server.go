package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/suryastays/hotelbooking/api"
	"github.com/suryastays/hotelbooking/config"
	"github.com/suryastays/hotelbooking/internal/service/auth"
	"github.com/suryastays/hotelbooking/internal/service/booking"
	"github.com/suryastays/hotelbooking/internal/service/hotels"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Services struct {
	Hotels   hotels.HotelUseCase
	Bookings booking.BookingUseCase
	Auth     auth.AuthUseCase
	Redis    *redis.Client
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, svcs Services) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, svcs),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, svcs Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.Default())
	if svcs.Redis != nil {
		router.Use(api.NewRateLimiter(svcs.Redis, "60-M"))
	}

	authGroup := router.Group("/auth")
	api.NewAuthHandler(svcs.Auth).Register(authGroup)

	hotelGroup := router.Group("/hotels")
	api.NewHotelHandler(svcs.Hotels).Register(hotelGroup)

	bookingGroup := router.Group("/bookings")
	bookingGroup.Use(api.RequireAuth(svcs.Auth))
	api.NewBookingHandler(svcs.Bookings).Register(bookingGroup)

	api.RegisterRefundPolicy(router)

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}
