package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/passvault-be/internal/auth"
	"github.com/hongminglow/passvault-be/internal/config"
	"github.com/hongminglow/passvault-be/internal/face"
	"github.com/hongminglow/passvault-be/internal/http/handlers"
	"github.com/hongminglow/passvault-be/internal/identity"
	"github.com/hongminglow/passvault-be/internal/mail"
	"github.com/hongminglow/passvault-be/internal/media"
	"github.com/hongminglow/passvault-be/internal/otp"
	"github.com/hongminglow/passvault-be/internal/server"
	"github.com/hongminglow/passvault-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	defer store.Close()

	// The cascade model is loaded once here and injected; it is the only
	// process-wide face-detection resource.
	detector, err := face.NewPigoDetector(cfg.FaceCascadePath)
	if err != nil {
		logger.Fatal("load face cascade", zap.Error(err))
	}
	verifier := face.NewVerifier(detector, cfg.FaceMatchThreshold, cfg.FaceTimeout, cfg.FaceWorkers)

	mediaStore, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		logger.Fatal("init media store", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)
	sessions := auth.NewService(store, store, tokens, cfg.RefreshTokenTTL, cfg.RotateRefreshTokens)
	engine := otp.NewEngine(store, cfg.OTPIssuer, cfg.OTPPeriod)
	mailer := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	svc := identity.NewService(store, store, store, sessions, engine, verifier, mediaStore, mailer, logger)

	srv := server.New(cfg, handlers.New(svc), tokens, logger)

	go func() {
		logger.Info("passvault backend listening", zap.String("addr", cfg.HTTPAddress()))
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", zap.Error(err))
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
