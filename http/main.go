package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/vegandiet705/next-upload/config"
	"github.com/vegandiet705/next-upload/http/controller"
	routes "github.com/vegandiet705/next-upload/http/route"
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

	uploadProvider := provider.NewUploadProvider(cfg.EnvConfig, repo.AssetRepo, infra.Minio, infra.Logger)
	if err := uploadProvider.Init(context.Background()); err != nil {
		log.Fatalf("Failed to initialize upload provider: %v", err)
	}

	ctrl := controller.NewController(cfg, infra, repo, uploadProvider)

	router := routes.SetupRouter(ctrl)

	log.Println("HTTP Server started on :8080")
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
