package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harulab/beachtix/config"
	"github.com/harulab/beachtix/internal/bootstrap"
	"github.com/harulab/beachtix/internal/cache"
	"github.com/harulab/beachtix/internal/kafka"
	"github.com/harulab/beachtix/internal/repository"
	"github.com/harulab/beachtix/internal/service/booking"
	"github.com/harulab/beachtix/internal/service/cart"
	"github.com/harulab/beachtix/internal/service/catalog"
	"github.com/harulab/beachtix/internal/service/gate"
	"github.com/harulab/beachtix/internal/service/ledger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.CatalogCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	eventRepo := repository.NewEventRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	ledgerSvc := ledger.NewService(ticketRepo, time.Duration(cfg.Booking.ReserveTimeoutMS)*time.Millisecond)
	gateSvc := gate.NewService(ticketRepo)
	catalogSvc := catalog.NewService(eventRepo, ticketRepo, redisCache)
	carts := cart.NewManager(ledgerSvc, gateSvc, time.Duration(cfg.Cart.SessionTTLMinutes)*time.Minute)

	bookingOpts := []booking.ServiceOption{booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic)}
	if cfg.Booking.ReleaseOnReject {
		bookingOpts = append(bookingOpts, booking.WithReleaseOnReject())
	}
	bookingSvc := booking.NewService(bookingRepo, ticketRepo, ledgerSvc, producer, cfg.Kafka.BookingEventsTopic, bookingOpts...)

	if err := bootstrap.Run(ctx, cfg, catalogSvc, bookingSvc, carts); err != nil {
		logrus.WithError(err).Fatal("server error")
	}
}
