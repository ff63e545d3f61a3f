package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blogify-app/blogify/blog/application"
	"github.com/blogify-app/blogify/blog/domain"
	"github.com/blogify-app/blogify/blog/persistence"
	mongostore "github.com/blogify-app/blogify/blog/persistence/mongo"
	"github.com/blogify-app/blogify/internal/config"
	"github.com/blogify-app/blogify/internal/middleware"
	"github.com/blogify-app/blogify/internal/rest"
	"github.com/blogify-app/blogify/shared/db"
	"github.com/blogify-app/blogify/shared/db/sqlite"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.App.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	postRepo, userRepo, cleanup, err := buildStores(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize stores")
	}
	defer cleanup()

	postService := application.NewPostService(postRepo)
	authService := application.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenTTL)
	renderer := application.NewMarkdownRenderer()

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewApi(router,
		rest.NewPostHandler(postService, authService, renderer),
		rest.NewAuthHandler(authService),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.App.Port).Str("store", cfg.Store.Driver).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}

// buildStores wires the configured post store plus the account store. The
// account store stays on SQLite even when posts live in MongoDB, mirroring
// the split between an identity service and a content database.
func buildStores(cfg *config.Config) (domain.PostRepository, domain.UserRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return persistence.NewMemoryPostRepository(), persistence.NewMemoryUserRepository(), func() {}, nil

	case config.DriverSQLite:
		var database db.Database = sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.Store.SQLitePath})
		if err := database.Connect(); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		cleanup := func() {
			if err := database.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close database")
			}
		}
		return persistence.NewPostRepository(database.DB()), persistence.NewUserRepository(database.DB()), cleanup, nil

	case config.DriverMongo:
		mongoDB, disconnect, err := mongostore.Connect(context.Background(), cfg.Store.MongoURI, cfg.Store.MongoDatabase)
		if err != nil {
			return nil, nil, nil, err
		}

		var database db.Database = sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.Store.SQLitePath})
		if err := database.Connect(); err != nil {
			_ = disconnect(context.Background())
			return nil, nil, nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}

		cleanup := func() {
			if err := database.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close database")
			}
			if err := disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to disconnect from mongodb")
			}
		}
		return mongostore.NewPostRepository(mongoDB), persistence.NewUserRepository(database.DB()), cleanup, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
