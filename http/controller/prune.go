package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/vegandiet705/next-upload/http/controller/dto"
	"github.com/vegandiet705/next-upload/infra/produce"
	"github.com/vegandiet705/next-upload/utils"
)

// PruneAssets handles the cron trigger. With RabbitMQ wired the pass is
// handed to the consumer and the response only acknowledges the enqueue;
// otherwise the pass runs inline and the response carries its counts.
func (ctrl *Controller) PruneAssets(c *gin.Context) {
	ctx := c.Request.Context()

	if ctrl.Infra.Produce != nil {
		err := ctrl.Infra.Produce.PruneService.PublishPruneRequest(ctx, produce.PruneRequestMessage{
			RequestedBy: "cron",
		})
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Prune] Failed to enqueue prune request")
			utils.JSON500(c, "failed to enqueue prune request")
			return
		}
		utils.JSON200(c, dto.PruneResponse{Success: true, Queued: true})
		return
	}

	report, err := ctrl.Provider.PruneAssets(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Prune] Prune pass failed")
		utils.JSON500(c, "prune pass failed")
		return
	}

	utils.JSON200(c, dto.PruneResponse{
		Success: true,
		Scanned: report.Scanned,
		Pruned:  report.Pruned,
		Failed:  report.Failed,
	})
}
