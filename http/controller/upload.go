package controller

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/vegandiet705/next-upload/http/controller/dto"
	"github.com/vegandiet705/next-upload/provider"
	"github.com/vegandiet705/next-upload/repository"
	"github.com/vegandiet705/next-upload/utils"
)

// HandleUploadAction dispatches the single upload endpoint. The body names an
// action and carries action-specific args, so clients talk to one route.
func (ctrl *Controller) HandleUploadAction(c *gin.Context) {
	var req dto.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "invalid request body: "+err.Error())
		return
	}

	switch req.Action {
	case dto.ActionGeneratePresignedPostPolicy:
		ctrl.generatePresignedPostPolicy(c, req.Args)
	case dto.ActionVerifyAsset:
		ctrl.verifyAsset(c, req.Args)
	default:
		utils.JSON400(c, "unknown action: "+req.Action)
	}
}

func (ctrl *Controller) generatePresignedPostPolicy(c *gin.Context, args json.RawMessage) {
	var opts provider.GenerateSignedURLOptions
	if len(args) > 0 {
		if err := json.Unmarshal(args, &opts); err != nil {
			utils.JSON400(c, "invalid args: "+err.Error())
			return
		}
	}

	policy, err := ctrl.Provider.GenerateSignedURL(c.Request.Context(), opts)
	if err != nil {
		ctrl.respondProviderError(c, err)
		return
	}

	utils.JSON200(c, policy)
}

func (ctrl *Controller) verifyAsset(c *gin.Context, args json.RawMessage) {
	var verifyArgs dto.VerifyAssetArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &verifyArgs); err != nil {
			utils.JSON400(c, "invalid args: "+err.Error())
			return
		}
	}
	if verifyArgs.ID == "" {
		utils.JSON400(c, "id is required")
		return
	}

	asset, err := ctrl.Provider.VerifyAsset(c.Request.Context(), verifyArgs.ID)
	if err != nil {
		ctrl.respondProviderError(c, err)
		return
	}

	utils.JSON200(c, asset)
}

func (ctrl *Controller) respondProviderError(c *gin.Context, err error) {
	var dup *provider.DuplicateIDError
	switch {
	case errors.As(err, &dup):
		utils.JSON409(c, dup.Error())
	case errors.Is(err, provider.ErrUnknownType),
		errors.Is(err, provider.ErrMissingMetadata):
		utils.JSON400(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		utils.JSON404(c, "asset not found")
	default:
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[Upload] Request failed")
		utils.JSON500(c, "internal server error")
	}
}
