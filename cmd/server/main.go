package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/cache"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/config"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/db"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/es"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/fig"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/handlers"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/logging"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/migrate"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/mykafka"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/token"
	httpserver "github.com/airuleguy/pana-inscriptions-sub002/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(configuration.JWT_SECRET, "JWT_SECRET")

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	// schema first, orm second: the migration runner owns DDL, gorm
	// never auto-migrates in production
	migDB, err := migrate.Open(configuration.DSN())
	if err != nil {
		log.Fatalf("migration connection failed: %v", err)
	}
	applied, err := migrate.Up(migDB, migrate.Steps)
	if err != nil {
		log.Fatalf("migrations failed: %v", err)
	}
	migDB.Close()
	logger.Info("migrations applied", "count", applied)

	gdb, err := db.Open(context.Background(), configuration.DSN())
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	tokenSvc := token.NewService(
		[]byte(configuration.JWT_SECRET),
		token.ParseExpiry(configuration.JWT_EXPIRY),
	)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init failed: %v", err)
		}
	}

	var store cache.Cache = cache.NewMemory()
	var redisStore *cache.Redis
	if configuration.REDIS_ADDR != "" {
		redisStore, err = cache.NewRedis(configuration.REDIS_ADDR)
		if err != nil {
			log.Fatalf("redis init failed: %v", err)
		}
		store = redisStore
	}

	figClient := fig.NewClient(configuration.FIG_API_URL, configuration.FIG_TIMEOUT, configuration.FIG_IMAGE_MAX)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		Token:               tokenSvc,
		AuthHandler:         &handlers.AuthHandler{DB: gdb, Token: tokenSvc, Producer: prod},
		TournamentHandler:   &handlers.TournamentHandler{DB: gdb},
		ChoreographyHandler: &handlers.ChoreographyHandler{DB: gdb, Producer: prod, ES: esClient},
		CoachHandler:        &handlers.CoachHandler{DB: gdb, Producer: prod, ES: esClient},
		JudgeHandler:        &handlers.JudgeHandler{DB: gdb, Producer: prod, ES: esClient},
		SupportStaffHandler: &handlers.SupportStaffHandler{DB: gdb, Producer: prod, ES: esClient},
		FigHandler:          &handlers.FigHandler{DB: gdb, Client: figClient, Cache: store, TTL: configuration.IMAGE_CACHE_TTL},
		SearchHandler:       &handlers.SearchHandler{ES: esClient, Index: es.RegistrationIndex},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", configuration.PORT)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
