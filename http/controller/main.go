package controller

import (
	"github.com/vegandiet705/next-upload/config"
	"github.com/vegandiet705/next-upload/infra"
	"github.com/vegandiet705/next-upload/provider"
	"github.com/vegandiet705/next-upload/repository"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Provider   *provider.UploadProvider
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository, prov *provider.UploadProvider) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	if prov == nil {
		panic("Failed to initialize Upload provider")
	}
	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Provider:   prov,
	}
}
