package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationStateJSON(t *testing.T) {
	asset := NewAsset("a1", "default", "localhost-test", nil, VerificationNone)

	raw, err := json.Marshal(asset)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"verified":null`)

	asset.Verified = VerificationPending
	raw, err = json.Marshal(asset)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"verified":false`)

	asset.Verified = VerificationVerified
	raw, err = json.Marshal(asset)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"verified":true`)

	var decoded Asset
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, VerificationVerified, decoded.Verified)
	assert.True(t, decoded.Verified.Verified())
}

func TestVerificationStateUnmarshalInvalid(t *testing.T) {
	var state VerificationState
	assert.Error(t, state.UnmarshalJSON([]byte(`"yes"`)))
}

func TestNewAsset(t *testing.T) {
	asset := NewAsset("a1", "image", "localhost-test", map[string]string{"foo": "bar"}, VerificationPending)

	assert.Equal(t, "image/a1", asset.Path)
	assert.Equal(t, "image", asset.Type)
	assert.Equal(t, "localhost-test", asset.Bucket)
	assert.Equal(t, asset.CreatedAt, asset.UpdatedAt)
	assert.False(t, asset.Verified.Verified())
}
