package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeHMACSHA256(t *testing.T) {
	// RFC test vector for HMAC-SHA256.
	got := ComputeHMACSHA256("key", "The quick brown fox jumps over the lazy dog")
	assert.Equal(t, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8", got)
}

func TestBuildStringToSign(t *testing.T) {
	assert.Equal(t, "GET\n/cron/prune\n1700000000", BuildStringToSign("GET", "/cron/prune", 1700000000))
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare("secret", "secret"))
	assert.False(t, SecureCompare("secret", "Secret"))
	assert.False(t, SecureCompare("secret", "secret2"))
}

func TestAbs(t *testing.T) {
	assert.Equal(t, int64(5), Abs(5))
	assert.Equal(t, int64(5), Abs(-5))
	assert.Equal(t, int64(0), Abs(0))
}
