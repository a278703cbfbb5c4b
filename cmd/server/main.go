package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jerico-c/cashier-app/internal/archive"
	"github.com/jerico-c/cashier-app/internal/catalog"
	"github.com/jerico-c/cashier-app/internal/config"
	"github.com/jerico-c/cashier-app/internal/events"
	"github.com/jerico-c/cashier-app/internal/httpapi"
	"github.com/jerico-c/cashier-app/internal/printer"
	"github.com/jerico-c/cashier-app/internal/receipt"
	"github.com/jerico-c/cashier-app/internal/session"
	"github.com/jerico-c/cashier-app/internal/store"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	// Catalog
	cat, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open catalog database")
	}
	defer cat.Close()

	if err := cat.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
		log.WithError(err).Fatal("failed to migrate catalog database")
	}
	log.WithField("path", cfg.CatalogDBPath).Info("catalog database ready")

	// Session persistence
	var sessionStore store.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		sessionStore = store.NewRedisStore(redisClient)
		log.WithField("addr", cfg.RedisAddr).Info("using redis session store")
	} else {
		sessionStore = store.NewMemoryStore()
		log.Warn("no redis configured, session state will not survive restarts")
	}

	// Order archive (optional)
	var (
		archiver session.Archiver
		history  httpapi.OrderHistory
	)
	if cfg.ArchiveHost != "" {
		creds := &archive.Credentials{
			Host:              cfg.ArchiveHost,
			Port:              cfg.ArchivePort,
			User:              cfg.ArchiveUser,
			Password:          cfg.ArchivePassword,
			DBName:            cfg.ArchiveDBName,
			MigrationsDirPath: cfg.ArchiveMigrationsPath,
		}
		repo, err := archive.NewRepository(creds)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to order archive")
		}
		defer repo.Close()

		if err := repo.RunMigrations(creds); err != nil {
			log.WithError(err).Fatal("failed to migrate order archive")
		}
		archiver = repo
		history = repo
		log.WithField("host", cfg.ArchiveHost).Info("order archive ready")
	}

	// Order events (optional)
	var publisher session.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.WithField("brokers", cfg.KafkaBrokers).Info("publishing order events to kafka")
	}

	// Receipt formatting and printing
	formatter, err := receipt.NewFormatter(receipt.Config{
		StoreName:   cfg.StoreName,
		AddressLine: cfg.StoreAddress,
		Locale:      cfg.Locale,
		Symbol:      cfg.CurrencySymbol,
		TaxRate:     cfg.TaxRate,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to build receipt formatter")
	}

	var sink httpapi.Printer
	if cfg.PrinterURL != "" {
		sink = printer.NewSink(cfg.PrinterURL, cfg.PrinterTimeout)
		log.WithField("url", cfg.PrinterURL).Info("receipt printer configured")
	}

	// The cashier session, restored from whatever the store has
	sess := session.New(session.Options{
		Store:     sessionStore,
		Catalog:   cat,
		Archiver:  archiver,
		Publisher: publisher,
		TaxRate:   cfg.TaxRate,
	})
	sess.Restore(context.Background())

	handler := httpapi.NewHandler(sess, cat, formatter, sink, history)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(handler.Router(), "cashier-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("cashier server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}
