package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vegandiet705/next-upload/entity"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

// AssetUpdate carries the fields Update may change. Nil fields are left
// untouched. The object key, bucket and type of an asset never change.
type AssetUpdate struct {
	Name     *string
	Verified *entity.VerificationState
	Metadata map[string]string
}

// AssetEntry is one item of an Iterator pass.
type AssetEntry struct {
	ID    string
	Asset *entity.Asset
	Err   error
}

// AssetRepository stores asset records as JSON values in a namespaced
// key-value store.
type AssetRepository struct {
	kv        KV
	namespace string
}

func NewAssetRepository(kv KV, namespace string) *AssetRepository {
	return &AssetRepository{
		kv:        kv,
		namespace: namespace,
	}
}

func (r *AssetRepository) Namespace() string {
	return r.namespace
}

func (r *AssetRepository) key(id string) string {
	return r.namespace + ":" + id
}

func (r *AssetRepository) idFromKey(key string) string {
	return key[len(r.namespace)+1:]
}

// Create persists a new asset record. Fails with ErrAlreadyExists when the
// id is taken; the check-and-set is atomic at the store, so two concurrent
// creates for one id cannot both succeed.
func (r *AssetRepository) Create(ctx context.Context, asset *entity.Asset) error {
	value, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("failed to encode asset %s: %w", asset.ID, err)
	}

	ok, err := r.kv.SetNX(ctx, r.key(asset.ID), value)
	if err != nil {
		return fmt.Errorf("failed to store asset %s: %w", asset.ID, err)
	}
	if !ok {
		return ErrAlreadyExists
	}
	return nil
}

// Find returns the asset record, or ErrNotFound.
func (r *AssetRepository) Find(ctx context.Context, id string) (*entity.Asset, error) {
	value, ok, err := r.kv.Get(ctx, r.key(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load asset %s: %w", id, err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	var asset entity.Asset
	if err := json.Unmarshal(value, &asset); err != nil {
		return nil, fmt.Errorf("failed to decode asset %s: %w", id, err)
	}
	return &asset, nil
}

// Update merges the partial update into the stored record and refreshes
// UpdatedAt. Fails with ErrNotFound when the id is absent.
//
// The read-merge-write is not atomic across concurrent updates of the same
// id; the only concurrent writer in practice is verification, which is
// idempotent, so the window is accepted.
func (r *AssetRepository) Update(ctx context.Context, id string, update AssetUpdate) (*entity.Asset, error) {
	asset, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		asset.Name = *update.Name
	}
	if update.Verified != nil {
		asset.Verified = *update.Verified
	}
	if update.Metadata != nil {
		asset.Metadata = update.Metadata
	}
	asset.UpdatedAt = time.Now().UTC()

	value, err := json.Marshal(asset)
	if err != nil {
		return nil, fmt.Errorf("failed to encode asset %s: %w", id, err)
	}
	if err := r.kv.Set(ctx, r.key(id), value); err != nil {
		return nil, fmt.Errorf("failed to store asset %s: %w", id, err)
	}
	return asset, nil
}

// Remove deletes the record. Removing an absent id is not an error.
func (r *AssetRepository) Remove(ctx context.Context, id string) error {
	if err := r.kv.Delete(ctx, r.key(id)); err != nil {
		return fmt.Errorf("failed to remove asset %s: %w", id, err)
	}
	return nil
}

// Iterator streams every asset in the namespace as of the start of the call.
// Each call starts a fresh pass; ordering is unspecified. Records deleted
// mid-pass are skipped silently; decode and load failures come through as
// entries with Err set so a prune pass can report them without stopping.
func (r *AssetRepository) Iterator(ctx context.Context) <-chan AssetEntry {
	out := make(chan AssetEntry)

	go func() {
		defer close(out)

		keys, err := r.kv.Keys(ctx, r.namespace+":")
		if err != nil {
			out <- AssetEntry{Err: fmt.Errorf("failed to list assets: %w", err)}
			return
		}

		for _, key := range keys {
			id := r.idFromKey(key)

			asset, err := r.Find(ctx, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}

			entry := AssetEntry{ID: id, Asset: asset, Err: err}
			select {
			case out <- entry:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
