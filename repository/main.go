package repository

import (
	"fmt"

	"github.com/vegandiet705/next-upload/config"
	"github.com/vegandiet705/next-upload/infra"
	"github.com/vegandiet705/next-upload/utils"
)

type Repository struct {
	AssetRepo *AssetRepository
}

var repository *Repository

func InitRepository(cfg *config.Config, infra *infra.Infra) *Repository {
	kv, err := newKV(cfg, infra)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize asset store: %v", err))
	}

	repository = &Repository{
		AssetRepo: NewAssetRepository(kv, utils.NamespaceFromEnv(cfg.EnvConfig)),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

func newKV(cfg *config.Config, infra *infra.Infra) (KV, error) {
	switch backend := cfg.EnvConfig.Store.Backend; backend {
	case "redis":
		return NewRedisKV(infra.Redis), nil
	case "postgres":
		return NewPostgresKV(infra.Postgres.DB)
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown asset store backend %q", backend)
	}
}
