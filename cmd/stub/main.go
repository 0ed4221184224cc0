package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-console/internal/config"
	"github.com/noah-isme/sira-console/internal/stub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	server, err := stub.New(stub.Config{
		JWTSecret:   cfg.StubJWTSecret,
		DatabaseURL: cfg.StubDatabase,
	}, logger)
	if err != nil {
		log.Fatalf("failed to start stub backend: %v", err)
	}

	go func() {
		logger.Info().Str("address", cfg.StubAddress()).Msg("stub backend listening")
		if err := server.Listen(cfg.StubAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(server)
}

func waitForShutdown(server *stub.Server) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.App().ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("stub stopped")
}
