package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"propchat/backend/internal/api/handler"
	"propchat/backend/internal/chat"
	"propchat/backend/internal/config"
	"propchat/backend/internal/logging"
	"propchat/backend/internal/mail"
	"propchat/backend/internal/notify"
	"propchat/backend/internal/roomhub"
	"propchat/backend/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Not fatal: production supplies real environment variables.
		logging.L().Debug().Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.L().Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.Log)
	log := logging.L()

	log.Info().Str("addr", cfg.Server.Addr()).Msg("starting propchat backend")

	// Persistence.
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		TranslateError: true, // surfaces unique violations as gorm.ErrDuplicatedKey
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	store := storage.NewService(db)
	if err := store.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("database connection established, migrations complete")

	// Room hub: process-local by default, redis-backed for multi-instance
	// deployments.
	var hub roomhub.Hub = roomhub.NewMemoryHub()
	var redisHub *roomhub.RedisHub
	if cfg.Hub.Driver == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		redisHub, err = roomhub.NewRedisHub(rdb, hub)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start redis hub")
		}
		hub = redisHub
		log.Info().Str("addr", cfg.Redis.Address).Msg("redis hub enabled")
	}

	// Outbound email.
	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTP.Enabled {
		mailer, err = mail.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialise mailer")
		}
	}

	dispatcher := notify.NewDispatcher(hub)
	svc := chat.NewService(store, store, hub, dispatcher, mailer)

	r := gin.Default()
	h := handler.NewHandler(svc, hub, cfg.Auth, cfg.WebSocket)
	h.Register(r)

	server := &http.Server{
		Addr:           cfg.Server.Addr(),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
	log.Info().Str("addr", cfg.Server.Addr()).Msg("listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if redisHub != nil {
		redisHub.Close()
	}

	log.Info().Msg("stopped")
}
