package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/vegandiet705/next-upload/utils"
)

func (ctrl *Controller) Healthz(c *gin.Context) {
	utils.JSON200(c, gin.H{"status": "ok"})
}

// Status reports the resolved bucket and the storage cluster state for
// operators.
func (ctrl *Controller) Status(c *gin.Context) {
	info, err := ctrl.Infra.Minio.ServerInfo(c.Request.Context())
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[Status] Failed to query storage info")
		utils.JSON500(c, "failed to query storage info")
		return
	}

	utils.JSON200(c, gin.H{
		"bucket":    ctrl.Provider.Bucket(),
		"namespace": ctrl.Repository.AssetRepo.Namespace(),
		"storage": gin.H{
			"mode":    info.Mode,
			"servers": len(info.Servers),
		},
	})
}
