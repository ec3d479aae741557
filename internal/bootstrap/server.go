package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harulab/beachtix/api"
	"github.com/harulab/beachtix/config"
	"github.com/harulab/beachtix/internal/service/booking"
	"github.com/harulab/beachtix/internal/service/cart"
	"github.com/harulab/beachtix/internal/service/catalog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run assembles the HTTP server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, catalogSvc catalog.CatalogUseCase, bookingSvc booking.BookingUseCase, carts *cart.Manager) error {
	router := gin.Default()

	api.NewEventHandler(catalogSvc).Register(router.Group("/events"))
	api.NewCartHandler(carts, bookingSvc).Register(router.Group("/carts"))
	api.NewBookingHandler(bookingSvc).Register(router.Group("/bookings"))
	api.NewAdminHandler(catalogSvc, bookingSvc).Register(router.Group("/admin"))

	if cfg.HTTP.SwaggerURL != "" {
		router.StaticFile("/swagger/openapi.json", "./docs/openapi.json")
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(cfg.HTTP.SwaggerURL))))
	}

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
