package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegandiet705/next-upload/entity"
)

func newTestRepo() *AssetRepository {
	return NewAssetRepository(NewMemoryKV(), "next-upload-localhost-test")
}

func TestAssetRepositoryCreateAndFind(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	asset := entity.NewAsset("a1", "default", "localhost-test", nil, entity.VerificationNone)
	require.NoError(t, repo.Create(ctx, asset))

	found, err := repo.Find(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", found.ID)
	assert.Equal(t, "default/a1", found.Path)
	assert.Equal(t, "localhost-test", found.Bucket)

	err = repo.Create(ctx, entity.NewAsset("a1", "default", "localhost-test", nil, entity.VerificationNone))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestAssetRepositoryFindMissing(t *testing.T) {
	repo := newTestRepo()

	_, err := repo.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssetRepositoryUpdate(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	asset := entity.NewAsset("a1", "default", "localhost-test", nil, entity.VerificationPending)
	require.NoError(t, repo.Create(ctx, asset))

	verified := entity.VerificationVerified
	name := "photo.png"
	updated, err := repo.Update(ctx, "a1", AssetUpdate{Verified: &verified, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, entity.VerificationVerified, updated.Verified)
	assert.Equal(t, "photo.png", updated.Name)
	assert.False(t, updated.UpdatedAt.Before(asset.UpdatedAt))

	// Fields absent from the update stay untouched.
	assert.Equal(t, asset.Path, updated.Path)
	assert.Equal(t, asset.Bucket, updated.Bucket)

	_, err = repo.Update(ctx, "missing", AssetUpdate{Verified: &verified})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssetRepositoryRemove(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, entity.NewAsset("a1", "default", "localhost-test", nil, entity.VerificationNone)))
	require.NoError(t, repo.Remove(ctx, "a1"))

	_, err := repo.Find(ctx, "a1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Removing an absent id is not an error.
	assert.NoError(t, repo.Remove(ctx, "a1"))
}

func TestAssetRepositoryIterator(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	ids := []string{"a1", "a2", "a3"}
	for _, id := range ids {
		require.NoError(t, repo.Create(ctx, entity.NewAsset(id, "default", "localhost-test", nil, entity.VerificationNone)))
	}

	seen := make(map[string]bool)
	for entry := range repo.Iterator(ctx) {
		require.NoError(t, entry.Err)
		seen[entry.ID] = true
	}

	assert.Len(t, seen, len(ids))
	for _, id := range ids {
		assert.True(t, seen[id], "missing %s", id)
	}
}

func TestAssetRepositoryIteratorCancel(t *testing.T) {
	repo := newTestRepo()
	ctx, cancel := context.WithCancel(context.Background())

	for _, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, repo.Create(ctx, entity.NewAsset(id, "default", "localhost-test", nil, entity.VerificationNone)))
	}

	it := repo.Iterator(ctx)
	<-it
	cancel()

	// The channel closes once the producer observes cancellation.
	for range it {
	}
}
