package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/vegandiet705/next-upload/config"
	"github.com/vegandiet705/next-upload/entity"
	"github.com/vegandiet705/next-upload/infra"
	"github.com/vegandiet705/next-upload/repository"
	"github.com/vegandiet705/next-upload/utils"
)

var (
	// ErrNotInitialized is returned when an operation runs before Init.
	ErrNotInitialized = errors.New("upload provider is not initialized")
	// ErrUnknownType is returned when a caller names an upload type absent
	// from configuration.
	ErrUnknownType = errors.New("unknown upload type")
	// ErrMissingMetadata is returned when a request omits a metadata key the
	// upload type declares as required.
	ErrMissingMetadata = errors.New("missing required metadata")
)

// DuplicateIDError reports a caller-supplied id colliding with an existing
// asset record. The id is deliberate caller input, so it is never silently
// replaced with a fresh one.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s already exists", e.ID)
}

// ObjectStorage is the storage capability the lifecycle depends on. Satisfied
// by infra.MinioClient.
type ObjectStorage interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string) error
	StatObject(ctx context.Context, bucket, key string) (bool, error)
	RemoveObject(ctx context.Context, bucket, key string) error
	PresignedPostPolicy(ctx context.Context, input infra.PostPolicyInput) (string, map[string]string, error)
}

// GenerateSignedURLOptions are the caller-facing knobs of one policy request.
type GenerateSignedURLOptions struct {
	// ID of the asset; generated when empty. Collision is a hard error.
	ID string `json:"id,omitempty"`
	// Type selects an upload category from configuration; defaults to
	// config.DefaultUploadType.
	Type string `json:"type,omitempty"`
	// Metadata is propagated into the storage object's user metadata.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SignedPostPolicy is what a client needs to upload directly to storage.
type SignedPostPolicy struct {
	ID   string            `json:"id"`
	URL  string            `json:"url"`
	Data map[string]string `json:"data"`
}

// PruneOutcome is the per-asset result of a prune pass. Storage deletion is
// best-effort, so StorageErr may be set on an otherwise removed asset.
type PruneOutcome struct {
	ID         string
	Removed    bool
	StorageErr error
	StoreErr   error
	Err        error
}

// PruneReport aggregates one prune pass.
type PruneReport struct {
	Scanned  int
	Pruned   int
	Failed   int
	Outcomes []PruneOutcome
}

// UploadProvider drives the asset lifecycle: issuing signed upload policies
// with pending records, verifying uploads landed, and pruning what never did.
// It holds no locks; the store and storage are the only shared state, so
// concurrent calls from many requests are safe.
type UploadProvider struct {
	cfg     *config.EnvConfig
	store   *repository.AssetRepository
	storage ObjectStorage
	logger  *infra.LoggerClient
	policy  PrunePolicy

	bucket      string
	initialized bool

	tracer        trace.Tracer
	pruneCount    metric.Int64Counter
	issuedCount   metric.Int64Counter
	pruneDuration metric.Float64Histogram
}

func NewUploadProvider(cfg *config.EnvConfig, store *repository.AssetRepository, storage ObjectStorage, logger *infra.LoggerClient) *UploadProvider {
	meter := otel.Meter("next-upload/provider")

	pruneCount, _ := meter.Int64Counter("next_upload.assets.pruned")
	issuedCount, _ := meter.Int64Counter("next_upload.policies.issued")
	pruneDuration, _ := meter.Float64Histogram("next_upload.prune.duration_seconds")

	return &UploadProvider{
		cfg:           cfg,
		store:         store,
		storage:       storage,
		logger:        logger,
		policy:        DefaultPrunePolicy(time.Duration(cfg.Upload.MaxAgeSeconds) * time.Second),
		tracer:        otel.Tracer("next-upload/provider"),
		pruneCount:    pruneCount,
		issuedCount:   issuedCount,
		pruneDuration: pruneDuration,
	}
}

// WithPrunePolicy replaces the deletion policy. Call before Init.
func (p *UploadProvider) WithPrunePolicy(policy PrunePolicy) *UploadProvider {
	p.policy = policy
	return p
}

// Bucket returns the resolved bucket name. Empty before Init.
func (p *UploadProvider) Bucket() string {
	return p.bucket
}

// Store exposes the asset repository, mainly for handlers and tests.
func (p *UploadProvider) Store() *repository.AssetRepository {
	return p.store
}

// Init resolves the bucket for this deployment and creates it when missing.
// Idempotent; must run before any other operation.
func (p *UploadProvider) Init(ctx context.Context) error {
	bucket := utils.BucketFromEnv(p.cfg)

	exists, err := p.storage.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := p.storage.MakeBucket(ctx, bucket); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}

	p.bucket = bucket
	p.initialized = true
	return nil
}

// GenerateSignedURL issues a presigned POST policy and reserves the matching
// asset record. The record is durably created before the policy is returned,
// so a prune pass can never observe a client holding a URL without a record.
func (p *UploadProvider) GenerateSignedURL(ctx context.Context, opts GenerateSignedURLOptions) (*SignedPostPolicy, error) {
	if !p.initialized {
		return nil, ErrNotInitialized
	}

	ctx, span := p.tracer.Start(ctx, "GenerateSignedURL")
	defer span.End()

	uploadType := opts.Type
	if uploadType == "" {
		uploadType = config.DefaultUploadType
	}
	typeConfig, ok := p.cfg.Upload.Types[uploadType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, uploadType)
	}

	for _, required := range typeConfig.Metadata {
		if _, ok := opts.Metadata[required]; !ok {
			return nil, fmt.Errorf("%w: upload type %s requires key %q", ErrMissingMetadata, uploadType, required)
		}
	}

	maxSize, err := p.cfg.MaxSizeFor(typeConfig)
	if err != nil {
		return nil, err
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	path := entity.AssetPath(uploadType, id)

	url, formData, err := p.storage.PresignedPostPolicy(ctx, infra.PostPolicyInput{
		Bucket:       p.bucket,
		Key:          path,
		Expiry:       time.Duration(p.cfg.Upload.ExpirySeconds) * time.Second,
		MaxSize:      maxSize,
		ContentTypes: typeConfig.ContentTypes,
		Metadata:     opts.Metadata,
	})
	if err != nil {
		return nil, err
	}

	verified := entity.VerificationNone
	if p.cfg.Upload.VerifyAssets {
		verified = entity.VerificationPending
	}

	asset := entity.NewAsset(id, uploadType, p.bucket, opts.Metadata, verified)
	if err := p.store.Create(ctx, asset); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, &DuplicateIDError{ID: id}
		}
		return nil, err
	}

	p.issuedCount.Add(ctx, 1)
	p.logger.InfoWithContextf(ctx, "[Upload] Issued signed policy for asset %s (type %s)", id, uploadType)

	return &SignedPostPolicy{
		ID:   id,
		URL:  url,
		Data: formData,
	}, nil
}

// VerifyAsset checks whether the upload behind an asset landed in storage
// and records the result. Verification only moves forward: a later check
// can flip pending to verified, nothing resets it.
func (p *UploadProvider) VerifyAsset(ctx context.Context, id string) (*entity.Asset, error) {
	if !p.initialized {
		return nil, ErrNotInitialized
	}

	ctx, span := p.tracer.Start(ctx, "VerifyAsset")
	defer span.End()

	asset, err := p.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := p.storage.StatObject(ctx, asset.Bucket, asset.Path)
	if err != nil {
		return nil, err
	}

	state := entity.VerificationPending
	if exists {
		state = entity.VerificationVerified
	}

	return p.store.Update(ctx, id, repository.AssetUpdate{Verified: &state})
}

// PruneAssets scans the whole namespace and deletes every asset the policy
// marks eligible. Storage deletion is best-effort; the record is removed
// regardless, since an orphaned object is recoverable out-of-band while an
// orphaned record accumulates forever. Per-asset failures never abort the
// scan.
//
// The pass offers no atomicity against concurrent writers: an asset verified
// after being read but before being deleted can still be pruned. That race
// is accepted.
func (p *UploadProvider) PruneAssets(ctx context.Context) (*PruneReport, error) {
	if !p.initialized {
		return nil, ErrNotInitialized
	}

	ctx, span := p.tracer.Start(ctx, "PruneAssets")
	defer span.End()

	report := &PruneReport{}
	now := time.Now().UTC()
	started := time.Now()

	for entry := range p.store.Iterator(ctx) {
		if entry.Err != nil {
			p.logger.ErrorWithContextf(ctx, entry.Err, "[Prune] Failed to read asset %s", entry.ID)
			report.Failed++
			report.Outcomes = append(report.Outcomes, PruneOutcome{ID: entry.ID, Err: entry.Err})
			continue
		}

		report.Scanned++
		if !p.policy(entry.Asset, now) {
			continue
		}

		outcome := PruneOutcome{ID: entry.ID}

		if err := p.storage.RemoveObject(ctx, entry.Asset.Bucket, entry.Asset.Path); err != nil {
			outcome.StorageErr = err
			p.logger.WarningWithContextf(ctx, "[Prune] Failed to remove object %s/%s: %v", entry.Asset.Bucket, entry.Asset.Path, err)
		}

		if err := p.store.Remove(ctx, entry.ID); err != nil {
			outcome.StoreErr = err
			report.Failed++
			p.logger.ErrorWithContextf(ctx, err, "[Prune] Failed to remove record %s", entry.ID)
		} else {
			outcome.Removed = true
			report.Pruned++
		}

		report.Outcomes = append(report.Outcomes, outcome)
	}

	p.pruneCount.Add(ctx, int64(report.Pruned))
	p.pruneDuration.Record(ctx, time.Since(started).Seconds())
	p.logger.InfoWithContextf(ctx, "[Prune] Scanned %d assets, pruned %d, failed %d", report.Scanned, report.Pruned, report.Failed)

	return report, nil
}
