package main

import (
	"context"
	"database/sql"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httphandler "github.com/coinforge/gamestore/internal/adapters/handler/http"
	smtpnotifier "github.com/coinforge/gamestore/internal/adapters/notifier/smtp"
	"github.com/coinforge/gamestore/internal/adapters/repository/postgres"
	"github.com/coinforge/gamestore/internal/config"
	"github.com/coinforge/gamestore/internal/core/services"
	"github.com/coinforge/gamestore/internal/cryptox"
	"github.com/coinforge/gamestore/internal/metrics"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal("failed to reach database", zap.Error(err))
	}

	cardCipher, err := cryptox.New(cfg.CardEncryptionKey)
	if err != nil {
		logger.Fatal("invalid card encryption key", zap.Error(err))
	}

	userRepo := postgres.NewUserRepository(db)
	cardRepo := postgres.NewCardRepository(db)
	gameRepo := postgres.NewGameRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	rechargeRepo := postgres.NewRechargeRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	notifier := smtpnotifier.New(smtpnotifier.Config{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}, logger)

	coinLedger := services.NewLedger(userRepo)
	authService := services.NewAuthService(userRepo, services.AuthConfig{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}, logger)
	userService := services.NewUserService(userRepo, notifier, cfg.VerificationCodeTTL, logger)
	cardService := services.NewCardService(cardRepo, userRepo, cardCipher)
	gameService := services.NewGameService(gameRepo, userRepo)
	rechargeService := services.NewRechargeService(userRepo, cardRepo, rechargeRepo, coinLedger, logger)
	purchaseService := services.NewPurchaseService(userRepo, gameRepo, orderRepo, coinLedger, logger)
	reviewService := services.NewReviewService(reviewRepo, gameRepo, userRepo)

	registry := prometheus.NewRegistry()
	handler := httphandler.NewHandler(
		httphandler.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			Logger:         logger,
			Metrics:        metrics.New(registry),
			MetricsHandler: metrics.Handler(registry),
		},
		authService,
		httphandler.NewAuthHandler(authService),
		httphandler.NewUserHandler(userService),
		httphandler.NewCardHandler(cardService),
		httphandler.NewGameHandler(gameService, reviewService),
		httphandler.NewStoreHandler(rechargeService, purchaseService),
	)

	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown failed", zap.Error(err))
	}
}
