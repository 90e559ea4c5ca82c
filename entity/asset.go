package entity

import (
	"bytes"
	"fmt"
	"time"
)

// VerificationState tracks whether the upload behind an asset record has been
// confirmed to exist in object storage.
type VerificationState string

const (
	// VerificationNone means verification was never requested for this asset.
	VerificationNone VerificationState = "NONE"
	// VerificationPending means the asset awaits verification or the last
	// check did not find the object in storage.
	VerificationPending VerificationState = "PENDING"
	// VerificationVerified means the object was confirmed present in storage.
	VerificationVerified VerificationState = "VERIFIED"
)

// Verified reports whether the state is VerificationVerified.
func (v VerificationState) Verified() bool {
	return v == VerificationVerified
}

// MarshalJSON encodes the state as null / false / true, the representation
// asset records are persisted and served with.
func (v VerificationState) MarshalJSON() ([]byte, error) {
	switch v {
	case VerificationPending:
		return []byte("false"), nil
	case VerificationVerified:
		return []byte("true"), nil
	default:
		return []byte("null"), nil
	}
}

func (v *VerificationState) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "null":
		*v = VerificationNone
	case "false":
		*v = VerificationPending
	case "true":
		*v = VerificationVerified
	default:
		return fmt.Errorf("invalid verification state: %s", data)
	}
	return nil
}

// Asset is the durable record tracking the lifecycle of one presigned upload.
// It is created when a signed POST policy is issued, before any bytes reach
// storage, and removed when the asset is pruned.
type Asset struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Path      string            `json:"path"`
	Type      string            `json:"type"`
	Bucket    string            `json:"bucket"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Verified  VerificationState `json:"verified"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewAsset builds a pending asset record for an issued upload policy.
// The object key is derived from the upload type and id and never changes.
func NewAsset(id, uploadType, bucket string, metadata map[string]string, verified VerificationState) *Asset {
	now := time.Now().UTC()
	return &Asset{
		ID:        id,
		Name:      "",
		Path:      AssetPath(uploadType, id),
		Type:      uploadType,
		Bucket:    bucket,
		Metadata:  metadata,
		Verified:  verified,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AssetPath returns the storage object key for an asset: "{type}/{id}".
func AssetPath(uploadType, id string) string {
	return fmt.Sprintf("%s/%s", uploadType, id)
}

// Age returns how long ago the record was last touched.
func (a *Asset) Age(now time.Time) time.Duration {
	return now.Sub(a.UpdatedAt)
}
