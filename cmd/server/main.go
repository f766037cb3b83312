package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storefront/internal/config"
	"storefront/internal/feed"
	"storefront/internal/httpserver"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/repo"
	"storefront/internal/service"
	"storefront/pkg/logging"
	loggingmw "storefront/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	store := &repo.GormRepo{DB: db}
	bus := notify.NewBus(cfg.NotificationTTL)
	directory := feed.NewDirectory()

	var publisher *feed.Publisher
	feedCtx, stopFeed := context.WithCancel(logging.IntoContext(context.Background(), logger))
	defer stopFeed()
	if len(cfg.KafkaBrokers) > 0 {
		publisher = feed.NewPublisher(cfg.KafkaBrokers, cfg.AddressTopic)
		sub := &feed.Subscriber{
			Src: feed.NewKafkaSource(cfg.KafkaBrokers, cfg.AddressTopic, cfg.ServiceName),
			Dir: directory,
		}
		go sub.Run(feedCtx)
	} else {
		logger.Warn("no kafka brokers configured, address feed disabled")
	}

	addressSvc := &service.AddressService{Store: store, Directory: directory, Bus: bus}
	if publisher != nil {
		addressSvc.Publisher = publisher
	}

	deps := &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Store:     store,
			JWTSecret: cfg.JWTSecret,
			AccessTTL: cfg.AccessTTL,
		}},
		CatalogHandler: &httpserver.CatalogHTTP{Repo: store},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Store: store, Bus: bus}},
		AddressHandler: &httpserver.AddressHTTP{Svc: addressSvc},
		CheckoutHandler: &httpserver.CheckoutHTTP{Svc: &service.CheckoutService{
			Store:                 store,
			Bus:                   bus,
			FreeShippingThreshold: cfg.FreeShippingThreshold,
			ShippingFee:           cfg.ShippingFee,
		}},
		NotifyHandler: &httpserver.NotifyHTTP{Bus: bus},
		JWTSecret:     cfg.JWTSecret,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	stopFeed()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("feed publisher close error", "error", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
