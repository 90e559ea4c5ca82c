package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vegandiet705/next-upload/config"
)

// MinioClient wraps the MinIO SDK with the capability surface the asset
// lifecycle needs: bucket setup, presigned POST policies, object stat and
// object removal. It never transfers object bytes itself.
type MinioClient struct {
	Admin    *madmin.AdminClient
	Client   *minio.Client
	Endpoint string
	Region   string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	accessKey := cfg.Minio.AccessKey
	if accessKey == "" {
		panic("MinIO access key is not configured")
	}

	secretKey := cfg.Minio.SecretKey
	if secretKey == "" {
		panic("MinIO secret key is not configured")
	}

	madminClient, err := madmin.New(endpoint, accessKey, secretKey, cfg.Minio.UseSSL)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO admin client: %v", err))
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: cfg.Minio.UseSSL,
		Region: cfg.Minio.Region,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	return &MinioClient{
		Admin:    madminClient,
		Client:   minioClient,
		Endpoint: endpoint,
		Region:   cfg.Minio.Region,
	}
}

// BucketExists checks if a bucket exists.
func (m *MinioClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	if bucketName == "" {
		return false, fmt.Errorf("bucketName cannot be empty")
	}

	exists, err := m.Client.BucketExists(ctx, bucketName)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	return exists, nil
}

// MakeBucket creates a new bucket.
func (m *MinioClient) MakeBucket(ctx context.Context, bucketName string) error {
	if bucketName == "" {
		return fmt.Errorf("bucketName cannot be empty")
	}

	err := m.Client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{
		Region: m.Region,
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// EnsureBucket creates a bucket if it doesn't exist. Safe to call repeatedly.
func (m *MinioClient) EnsureBucket(ctx context.Context, bucketName string) error {
	exists, err := m.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}

	if !exists {
		if err := m.MakeBucket(ctx, bucketName); err != nil {
			return err
		}
	}

	return nil
}

// StatObject reports whether an object exists. Absence is a normal outcome,
// not an error.
func (m *MinioClient) StatObject(ctx context.Context, bucketName, key string) (bool, error) {
	_, err := m.Client.StatObject(ctx, bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s/%s: %w", bucketName, key, err)
	}
	return true, nil
}

// RemoveObject deletes an object. Removing an absent object succeeds.
func (m *MinioClient) RemoveObject(ctx context.Context, bucketName, key string) error {
	err := m.Client.RemoveObject(ctx, bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove object %s/%s: %w", bucketName, key, err)
	}
	return nil
}

// PostPolicyInput scopes one presigned POST policy.
type PostPolicyInput struct {
	Bucket       string
	Key          string
	Expiry       time.Duration
	MaxSize      int64
	ContentTypes []string
	Metadata     map[string]string
}

// PresignedPostPolicy generates a signed POST policy for a direct browser
// upload, scoped to one bucket, key, size range and expiry. User metadata
// comes back as x-amz-meta-* form fields.
func (m *MinioClient) PresignedPostPolicy(ctx context.Context, input PostPolicyInput) (string, map[string]string, error) {
	policy := minio.NewPostPolicy()

	if err := policy.SetBucket(input.Bucket); err != nil {
		return "", nil, fmt.Errorf("failed to scope policy to bucket: %w", err)
	}
	if err := policy.SetKey(input.Key); err != nil {
		return "", nil, fmt.Errorf("failed to scope policy to key: %w", err)
	}
	if err := policy.SetExpires(time.Now().UTC().Add(input.Expiry)); err != nil {
		return "", nil, fmt.Errorf("failed to set policy expiry: %w", err)
	}
	if input.MaxSize > 0 {
		if err := policy.SetContentLengthRange(0, input.MaxSize); err != nil {
			return "", nil, fmt.Errorf("failed to set content length range: %w", err)
		}
	}
	if len(input.ContentTypes) == 1 {
		ct := input.ContentTypes[0]
		if strings.HasSuffix(ct, "/") {
			if err := policy.SetContentTypeStartsWith(ct); err != nil {
				return "", nil, fmt.Errorf("failed to set content type prefix: %w", err)
			}
		} else {
			if err := policy.SetContentType(ct); err != nil {
				return "", nil, fmt.Errorf("failed to set content type: %w", err)
			}
		}
	}
	for k, v := range input.Metadata {
		if err := policy.SetUserMetadata(k, v); err != nil {
			return "", nil, fmt.Errorf("failed to set user metadata %q: %w", k, err)
		}
	}

	url, formData, err := m.Client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return "", nil, fmt.Errorf("failed to presign post policy: %w", err)
	}

	return url.String(), formData, nil
}

// ServerInfo returns storage cluster info for the operator status endpoint.
func (m *MinioClient) ServerInfo(ctx context.Context) (madmin.InfoMessage, error) {
	info, err := m.Admin.ServerInfo(ctx)
	if err != nil {
		return madmin.InfoMessage{}, fmt.Errorf("failed to get server info: %w", err)
	}
	return info, nil
}
