package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vegandiet705/next-upload/config"
	"github.com/vegandiet705/next-upload/consumer/worker"
	infraPkg "github.com/vegandiet705/next-upload/infra"
	"github.com/vegandiet705/next-upload/provider"
	"github.com/vegandiet705/next-upload/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(cfg, infra)

	if infra.RabbitMQ == nil {
		log.Fatal("RabbitMQ is not configured; the consumer has nothing to consume")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uploadProvider := provider.NewUploadProvider(cfg.EnvConfig, repo.AssetRepo, infra.Minio, infra.Logger)
	if err := uploadProvider.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize upload provider: %v", err)
	}

	pruneConsumer := worker.NewPruneConsumer(infra.RabbitMQ.Channel, infra, uploadProvider)
	if err := pruneConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Prune consumer: %v", err)
		log.Fatalf("Failed to start Prune consumer: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	infra.Telemetry.Shutdown(shutdownCtx)
	infra.Logger.InfoWithContextf(shutdownCtx, "Consumer exited properly")
	infra.Logger.Shutdown(shutdownCtx)
}
