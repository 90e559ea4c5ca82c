package provider

import (
	"time"

	"github.com/vegandiet705/next-upload/entity"
)

// PrunePolicy decides whether an asset is eligible for deletion during a
// prune pass.
type PrunePolicy func(asset *entity.Asset, now time.Time) bool

// DefaultPrunePolicy removes assets whose upload was never confirmed:
// anything still awaiting verification (or whose last check found no object)
// goes immediately, and unverified-by-design assets go once they have been
// idle longer than maxAge. Verified assets are never pruned.
func DefaultPrunePolicy(maxAge time.Duration) PrunePolicy {
	return func(asset *entity.Asset, now time.Time) bool {
		switch asset.Verified {
		case entity.VerificationVerified:
			return false
		case entity.VerificationPending:
			return true
		default:
			return maxAge > 0 && asset.Age(now) > maxAge
		}
	}
}
