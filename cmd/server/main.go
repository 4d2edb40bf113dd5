package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iliyamo/waste-pickup/internal/config"
	"github.com/iliyamo/waste-pickup/internal/database"
	"github.com/iliyamo/waste-pickup/internal/handler"
	"github.com/iliyamo/waste-pickup/internal/logger"
	"github.com/iliyamo/waste-pickup/internal/metrics"
	"github.com/iliyamo/waste-pickup/internal/middleware"
	"github.com/iliyamo/waste-pickup/internal/queue"
	"github.com/iliyamo/waste-pickup/internal/repository"
	"github.com/iliyamo/waste-pickup/internal/router"
	"github.com/iliyamo/waste-pickup/internal/service"
	"github.com/iliyamo/waste-pickup/internal/storage"
	"github.com/iliyamo/waste-pickup/internal/utils"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "waste-pickup",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.Options{
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
	})
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal("schema setup failed", "error", err)
	}

	metrics.Register()

	// Redis backs the rate limiter and the pricing cache; both degrade to
	// pass-through when it is unavailable.
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	var events service.EventPublisher = queue.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		events = queue.NewPublisher(cfg.RabbitMQURL, log)
		if cfg.QueueConsumerEnabled {
			consumer := queue.NewConsumer(cfg.RabbitMQURL, cfg.BookingLogPath, log)
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("booking consumer stopped", "error", err)
				}
			}()
		}
	}

	creds := service.NewCredentialStore(repository.NewUserRepo(db), repository.NewAdminRepo(db), cfg.BcryptCost)
	created, err := creds.EnsureAdmin(ctx, cfg.AdminPassword)
	if err != nil {
		log.Fatal("admin seed failed", "error", err)
	}
	if created {
		log.Info("admin account created")
	}

	catalog := service.NewCatalogManager(repository.NewPricingRepo(db))
	if err := seedCatalog(ctx, catalog, cfg.PricingSeedPath, log); err != nil {
		log.Fatal("pricing seed failed", "error", err)
	}

	photos, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		log.Fatal("upload dir unavailable", "error", err)
	}

	issuer := utils.NewSessionIssuer(cfg.JWTSecret, cfg.TokenTTL)
	bookings := service.NewBookingManager(repository.NewBookingRepo(db), events, log)
	inbox := service.NewInbox(repository.NewContactRepo(db))
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb, log)

	e := router.New(router.Deps{
		Auth:        handler.NewAuthHandler(creds, issuer, log),
		Bookings:    handler.NewBookingHandler(bookings, photos, cfg.UploadMaxBytes, log),
		Contact:     handler.NewContactHandler(inbox, log),
		Pricing:     handler.NewPricingHandler(catalog, cache, log),
		Tokens:      issuer,
		RateLimit:   middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb, issuer, log),
		Cache:       cache,
		UploadDir:   cfg.UploadDir,
		BodyLimit:   bodyLimit(cfg.UploadMaxBytes),
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func seedCatalog(ctx context.Context, catalog *service.CatalogManager, path string, log *logger.Logger) error {
	items, err := config.LoadPricingSeed(path)
	if err != nil {
		return err
	}
	reqs := make([]service.PricingRequest, len(items))
	for i, it := range items {
		reqs[i] = service.PricingRequest{Name: it.Name, Description: it.Description, Price: it.Price}
	}
	n, err := catalog.SeedIfEmpty(ctx, reqs)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("pricing catalog seeded", "items", n, "path", path)
	}
	return nil
}

// bodyLimit leaves 1MB of headroom over the photo limit for the other
// multipart fields.
func bodyLimit(maxPhoto int64) string {
	if maxPhoto <= 0 {
		return "6M"
	}
	return fmt.Sprintf("%dK", (maxPhoto>>10)+1024)
}
