package infra

import (
	"github.com/vegandiet705/next-upload/config"
	"github.com/vegandiet705/next-upload/infra/produce"
)

type Infra struct {
	Logger    *LoggerClient
	Telemetry *TelemetryClient
	Minio     *MinioClient
	Redis     *RedisClient
	Postgres  *PostgresClient
	RabbitMQ  *RabbitMQClient
	Produce   *produce.Produce
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	env := cfg.EnvConfig

	logger := InitLoggerClient(env)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	telemetry := InitTelemetryClient(env)

	minio := InitMinioClient(env)
	if minio == nil {
		panic("Failed to initialize MinIO service")
	}

	instance := &Infra{
		Logger:    logger,
		Telemetry: telemetry,
		Minio:     minio,
	}

	// Only the selected store backend gets a connection.
	switch env.Store.Backend {
	case "redis":
		instance.Redis = InitRedisClient(env)
	case "postgres":
		instance.Postgres = InitPostgresClient(env)
	}

	// RabbitMQ is optional; without it prune passes run inline in the
	// HTTP process instead of on the consumer.
	if env.RabbitMQ.Host != "" {
		instance.RabbitMQ = InitRabbitMQClient(env)
		instance.Produce = produce.InitProduce(instance.RabbitMQ.Channel)
	}

	infraInstance = instance
	return infraInstance
}

func GetClient() *Infra {
	if infraInstance == nil {
		panic("Infra not initialized. Call InitInfra() first.")
	}
	return infraInstance
}
