package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"studykart/internal/app"
	"studykart/internal/config"
	"studykart/internal/ratelimit"
	"studykart/internal/server"
	"studykart/internal/token"
	"studykart/internal/util"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	jwtTTL, err := config.ParseJWTTTL(cfg.JWTTTL)
	if err != nil {
		log.Fatalf("failed to parse jwt ttl: %v", err)
	}
	tokens, err := token.NewManager(token.Config{
		Secret: cfg.JWTSecret,
		TTL:    jwtTTL,
	})
	if err != nil {
		log.Fatalf("failed to init token manager: %v", err)
	}

	var limiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" && cfg.AuthRateLimit > 0 {
		window, err := config.ParseAuthRateWindow(cfg.AuthRateWindow)
		if err != nil {
			log.Fatalf("failed to parse auth rate window: %v", err)
		}
		limiter, err = ratelimit.NewRedisFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "", cfg.AuthRateLimit, window)
		if err != nil {
			log.Fatalf("failed to init rate limiter: %v", err)
		}
	}

	appCore, err := app.New(app.Config{
		DatabaseURL:    cfg.DatabaseURL,
		MinioEndpoint:  cfg.MinioEndpoint,
		MinioAccessKey: cfg.MinioAccessKey,
		MinioSecretKey: cfg.MinioSecretKey,
		MinioBucket:    cfg.MinioBucket,
		MinioPublicURL: cfg.MinioPublicURL,
		MinioUseSSL:    cfg.MinioUseSSL,
		PresignExpiry:  time.Duration(cfg.PresignExpiryMin) * time.Minute,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer := server.New(server.Config{
		App:            appCore,
		Tokens:         tokens,
		Limiter:        limiter,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("studykart server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
