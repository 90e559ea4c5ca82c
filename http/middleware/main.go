package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/vegandiet705/next-upload/http/controller"
)

type Middlewares struct {
	CORSMiddleware     gin.HandlerFunc
	AuthMiddleware     gin.HandlerFunc
	CronAuthMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors := CORSMiddleware(ctrl.Config.EnvConfig)
	auth := AuthMiddleware(ctrl.Config.EnvConfig)
	cronAuth := CronAuthMiddleware(ctrl.Config.EnvConfig)

	return &Middlewares{
		CORSMiddleware:     cors,
		AuthMiddleware:     auth,
		CronAuthMiddleware: cronAuth,
	}, nil
}
