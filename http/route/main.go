package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vegandiet705/next-upload/http/controller"
	middlewares "github.com/vegandiet705/next-upload/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	r.GET("/healthz", ctrl.Healthz)
	r.GET("/status", middles.AuthMiddleware, ctrl.Status)

	// The upload API is a single action-dispatch endpoint; its path is
	// configurable so it can sit behind an existing frontend route.
	r.POST(ctrl.Config.EnvConfig.Upload.APIPath, middles.AuthMiddleware, ctrl.HandleUploadAction)

	cronRoutes := r.Group("/cron")
	{
		cronRoutes.Use(middles.CronAuthMiddleware)
		cronRoutes.GET("/prune", ctrl.PruneAssets)
	}

	return r
}
