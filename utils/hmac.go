package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// BuildStringToSign constructs the canonical string signed by callers of the
// prune trigger: METHOD\nPATH\nTIMESTAMP.
func BuildStringToSign(method, path string, timestamp int64) string {
	return fmt.Sprintf("%s\n%s\n%d", method, path, timestamp)
}

// ComputeHMACSHA256 computes an HMAC-SHA256 signature and returns it
// hex-encoded.
func ComputeHMACSHA256(secretKey, message string) string {
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// SecureCompare performs constant-time string comparison. It MUST be used
// when comparing signatures or shared secrets.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Abs returns the absolute value of x.
func Abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
