package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vegandiet705/next-upload/entity"
)

func TestDefaultPrunePolicy(t *testing.T) {
	now := time.Now().UTC()
	policy := DefaultPrunePolicy(time.Hour)

	fresh := &entity.Asset{Verified: entity.VerificationNone, UpdatedAt: now.Add(-time.Minute)}
	stale := &entity.Asset{Verified: entity.VerificationNone, UpdatedAt: now.Add(-2 * time.Hour)}
	pending := &entity.Asset{Verified: entity.VerificationPending, UpdatedAt: now}
	verified := &entity.Asset{Verified: entity.VerificationVerified, UpdatedAt: now.Add(-48 * time.Hour)}

	assert.False(t, policy(fresh, now))
	assert.True(t, policy(stale, now))
	assert.True(t, policy(pending, now))
	assert.False(t, policy(verified, now))
}

func TestDefaultPrunePolicyZeroMaxAge(t *testing.T) {
	now := time.Now().UTC()
	policy := DefaultPrunePolicy(0)

	old := &entity.Asset{Verified: entity.VerificationNone, UpdatedAt: now.Add(-240 * time.Hour)}
	assert.False(t, policy(old, now))
}
