package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/match-ticket-booking/internal/config"
	"github.com/iliyamo/match-ticket-booking/internal/database"
	"github.com/iliyamo/match-ticket-booking/internal/handler"
	"github.com/iliyamo/match-ticket-booking/internal/logging"
	"github.com/iliyamo/match-ticket-booking/internal/queue"
	"github.com/iliyamo/match-ticket-booking/internal/router"
	"github.com/iliyamo/match-ticket-booking/internal/service"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := database.OpenStore(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("storage unavailable")
	}
	defer closeStore()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		pub := queue.NewPublisher(cfg.RabbitURL)
		defer pub.Close()
		events = pub
	}

	fees := service.FeePolicy{GSTPercent: cfg.GSTPercent, ServiceFeePercent: cfg.ServiceFeePercent}
	catalog := service.NewCatalog(store)
	inventory := service.NewInventory(store)
	bookings := service.NewBookings(store, inventory, fees, service.NewReferenceGenerator(cfg.BookingRefPrefix), events)
	channels := service.NewPaymentChannels(store)
	creds := service.NewCredentials(store, cfg.BcryptCost)

	if cfg.AdminBootstrapUsername != "" {
		created, err := creds.EnsureAdmin(ctx, cfg.AdminBootstrapUsername, cfg.AdminBootstrapPassword, cfg.AdminBootstrapName)
		if err != nil {
			logrus.WithError(err).Fatal("admin bootstrap failed")
		}
		if created {
			logrus.WithField("username", cfg.AdminBootstrapUsername).Info("bootstrap admin created")
		}
	}

	e := router.New(router.Deps{
		Catalog:      handler.NewCatalogHandler(catalog),
		Bookings:     handler.NewBookingHandler(bookings),
		Channels:     handler.NewPaymentChannelHandler(channels),
		Admin:        handler.NewAdminHandler(catalog, inventory, bookings, channels, creds),
		Verifier:     creds,
		Redis:        rdb,
		BookingLimit: config.LoadRateLimitConfig("bookings"),
		LoginLimit:   config.LoadRateLimitConfig("login"),
		Cache:        config.LoadCacheConfig(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.AuditConsumerEnabled {
		g.Go(func() error {
			return queue.NewAuditConsumer(cfg.RabbitURL, cfg.AuditLogPath).Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logrus.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
