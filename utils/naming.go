package utils

import (
	"strings"

	"github.com/vegandiet705/next-upload/config"
)

// defaultNamespacePrefix separates asset-record keys from anything else
// sharing the key-value store.
const defaultNamespacePrefix = "next-upload"

// BucketFromEnv derives the bucket name for the current deployment. The name
// joins the deployment host, an optional prefix and, outside production, the
// environment mode, so that environments never share a bucket:
//
//	host "localhost", env "test":          "localhost-test"
//	same, prefix "next-upload":            "localhost-next-upload-test"
//
// Pure function of the config; safe to call repeatedly and across restarts.
func BucketFromEnv(cfg *config.EnvConfig, prefix ...string) string {
	parts := []string{cfg.DeploymentHost}
	parts = append(parts, prefix...)
	if cfg.BucketPrefix != "" {
		parts = append(parts, cfg.BucketPrefix)
	}
	if cfg.Environment.Mode != "production" {
		parts = append(parts, cfg.Environment.Mode)
	}
	return sanitizeBucketName(joinNonEmpty(parts))
}

// NamespaceFromEnv derives the key-value namespace for asset records,
// distinct per deployment and environment the same way bucket names are.
func NamespaceFromEnv(cfg *config.EnvConfig) string {
	parts := []string{defaultNamespacePrefix, cfg.DeploymentHost}
	if cfg.Environment.Mode != "production" {
		parts = append(parts, cfg.Environment.Mode)
	}
	return joinNonEmpty(parts)
}

func joinNonEmpty(parts []string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "-")
}

// sanitizeBucketName lowercases and strips characters S3 bucket naming rules
// reject, keeping the result deterministic.
func sanitizeBucketName(name string) string {
	name = strings.ToLower(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '.', r == '_', r == ':':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
