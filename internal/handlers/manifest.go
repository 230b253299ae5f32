package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/internal/models"
)

func (h *Handler) handleManifest(c *gin.Context) {
	c.JSON(http.StatusOK, createManifest())
}

func createManifest() models.Manifest {
	return models.Manifest{
		ID:          constants.AddonID,
		Version:     constants.AddonVersion,
		Name:        constants.AddonName,
		Description: constants.AddonDescription,
		Types:       []string{"movie", "series"},
		Resources:   []string{"stream"},
		Catalogs:    []models.Catalog{},
		IDPrefixes:  []string{"tt"},
		BehaviorHints: models.BehaviorHints{
			Configurable:          true,
			ConfigurationRequired: true,
		},
	}
}
