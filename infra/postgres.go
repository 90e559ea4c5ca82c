package infra

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vegandiet705/next-upload/config"
)

type PostgresClient struct {
	DB *gorm.DB
}

func InitPostgresClient(cfg *config.EnvConfig) *PostgresClient {
	if cfg.Postgres.DSN == "" {
		panic("Postgres connection string is not configured")
	}

	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN))
	if err != nil {
		log.Fatalf("Postgres connection failed: %v", err)
	}

	return &PostgresClient{DB: db}
}
