package dto

import "encoding/json"

const (
	ActionGeneratePresignedPostPolicy = "generatePresignedPostPolicy"
	ActionVerifyAsset                 = "verifyAsset"
)

// ActionRequest is the envelope posted to the upload endpoint. Args is decoded
// per action.
type ActionRequest struct {
	Action string          `json:"action" binding:"required"`
	Args   json.RawMessage `json:"args"`
}

type VerifyAssetArgs struct {
	ID string `json:"id"`
}

type PruneResponse struct {
	Success bool `json:"success"`
	Queued  bool `json:"queued,omitempty"`
	Scanned int  `json:"scanned"`
	Pruned  int  `json:"pruned"`
	Failed  int  `json:"failed"`
}
