package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// DefaultUploadType is the upload category used when a caller does not name one.
const DefaultUploadType = "default"

// UploadTypeConfig holds the per-category constraints applied to issued
// upload policies.
type UploadTypeConfig struct {
	// MaxSize overrides the global ceiling for this category, humanized
	// ("10mb", "500kb"). Empty means inherit the global max size.
	MaxSize string `json:"max_size"`
	// ContentTypes restricts what the POST policy accepts. A single entry
	// ending in "/" is treated as a prefix constraint (e.g. "image/").
	ContentTypes []string `json:"content_types"`
	// Metadata lists keys the caller must supply when requesting a policy
	// of this category.
	Metadata []string `json:"metadata"`
}

type EnvConfig struct {
	Minio struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		UseSSL    bool
		Region    string
	}
	Redis struct {
		Password string
		Database int
		Host     string
		Port     string
	}
	Postgres struct {
		DSN string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Upload struct {
		// APIPath is the route the signing handler is mounted on.
		APIPath string
		// MaxSize is the default upload size ceiling in bytes.
		MaxSize int64
		// ExpirySeconds bounds how long an issued POST policy stays valid.
		ExpirySeconds int64
		// VerifyAssets toggles whether new assets start awaiting verification.
		VerifyAssets bool
		// Types maps upload category names to their constraints. Always
		// contains DefaultUploadType.
		Types map[string]UploadTypeConfig
		// MaxAgeSeconds is the staleness threshold used by the default
		// prune policy.
		MaxAgeSeconds int64
	}
	Store struct {
		// Backend selects the key-value backing for asset records:
		// "redis", "postgres" or "memory".
		Backend string
	}
	JWT struct {
		SecretKey string
	}
	CORS struct {
		AllowOrigins string
	}
	CronKey string
	Grafana struct {
		OTLPEndpoint string
		ServiceName  string
	}
	Environment struct {
		Mode string
	}
	// DeploymentHost discriminates bucket and namespace names between
	// deployments (e.g. "localhost" vs. a production hostname).
	DeploymentHost string
	// BucketPrefix is an optional extra segment for derived bucket names.
	BucketPrefix string
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// MinIO / S3-compatible storage
	config.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	config.Minio.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	config.Minio.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	config.Minio.UseSSL = os.Getenv("MINIO_SSL") == "true"
	config.Minio.Region = os.Getenv("MINIO_REGION")

	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.Host = os.Getenv("REDIS_HOST")
	if config.Redis.Host == "" {
		config.Redis.Host = "localhost"
	}
	config.Redis.Port = os.Getenv("REDIS_PORT")
	if config.Redis.Port == "" {
		config.Redis.Port = "6379"
	}

	config.Postgres.DSN = os.Getenv("PG_CONNECTION_STRING")

	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "guest"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASSWORD")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "guest"
	}

	config.Upload.APIPath = os.Getenv("UPLOAD_API_PATH")
	if config.Upload.APIPath == "" {
		config.Upload.APIPath = "/upload"
	}

	maxSize := os.Getenv("UPLOAD_MAX_SIZE")
	if maxSize == "" {
		maxSize = "10mb"
	}
	parsed, err := humanize.ParseBytes(maxSize)
	if err != nil {
		panic(fmt.Sprintf("Invalid UPLOAD_MAX_SIZE %q: %v", maxSize, err))
	}
	config.Upload.MaxSize = int64(parsed)

	config.Upload.ExpirySeconds, _ = strconv.ParseInt(os.Getenv("UPLOAD_EXPIRY_SECONDS"), 10, 64)
	if config.Upload.ExpirySeconds == 0 {
		config.Upload.ExpirySeconds = 120
	}

	config.Upload.VerifyAssets = os.Getenv("UPLOAD_VERIFY_ASSETS") == "true"

	config.Upload.Types = parseUploadTypes(os.Getenv("UPLOAD_TYPES"))

	config.Upload.MaxAgeSeconds, _ = strconv.ParseInt(os.Getenv("UPLOAD_MAX_AGE_SECONDS"), 10, 64)
	if config.Upload.MaxAgeSeconds == 0 {
		config.Upload.MaxAgeSeconds = 24 * 3600
	}

	config.Store.Backend = os.Getenv("ASSET_STORE_BACKEND")
	if config.Store.Backend == "" {
		config.Store.Backend = "redis"
	}

	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	config.CORS.AllowOrigins = os.Getenv("ALLOWED_ORIGINS")
	config.CronKey = os.Getenv("CRON_KEY")

	config.Grafana.OTLPEndpoint = trimScheme(os.Getenv("GRAFANA_OTLP_ENDPOINT"))
	config.Grafana.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Grafana.ServiceName == "" {
		config.Grafana.ServiceName = "next-upload"
	}

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}

	config.DeploymentHost = os.Getenv("DEPLOYMENT_HOST")
	if config.DeploymentHost == "" {
		config.DeploymentHost = "localhost"
	}
	config.BucketPrefix = os.Getenv("BUCKET_PREFIX")

	return &config
}

// parseUploadTypes decodes the UPLOAD_TYPES JSON mapping and guarantees the
// default category is present.
func parseUploadTypes(raw string) map[string]UploadTypeConfig {
	types := make(map[string]UploadTypeConfig)
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &types); err != nil {
			panic(fmt.Sprintf("Invalid UPLOAD_TYPES JSON: %v", err))
		}
	}
	if _, ok := types[DefaultUploadType]; !ok {
		types[DefaultUploadType] = UploadTypeConfig{}
	}
	return types
}

// MaxSizeFor resolves the size ceiling for one upload category, falling back
// to the global default when the category does not override it.
func (c *EnvConfig) MaxSizeFor(t UploadTypeConfig) (int64, error) {
	if t.MaxSize == "" {
		return c.Upload.MaxSize, nil
	}
	parsed, err := humanize.ParseBytes(t.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max size %q: %w", t.MaxSize, err)
	}
	return int64(parsed), nil
}

func trimScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	return strings.TrimPrefix(endpoint, "http://")
}
