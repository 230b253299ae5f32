// Package handlers implements the HTTP surface: the Stremio addon protocol
// routes and the catalog administration endpoints.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gostremiobr/gostremiobr/internal/config"
	"github.com/gostremiobr/gostremiobr/internal/services"
)

// Handler handles HTTP requests for the addon.
type Handler struct {
	services *services.Container
	config   *config.Config
}

func New(container *services.Container, cfg *config.Config) *Handler {
	return &Handler{
		services: container,
		config:   cfg,
	}
}

// RegisterRoutes registers every route on the engine. Stremio requests
// carry the base64 user configuration as the first path segment.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleHome)

	r.GET("/manifest.json", h.handleManifest)
	r.GET("/:configuration/manifest.json", h.handleManifest)

	r.GET("/:configuration/stream/:type/:id", h.handleStream)

	r.POST("/api/catalog/:id", h.handleCatalogAdd)
	r.DELETE("/api/catalog/:id", h.handleCatalogDelete)
	r.DELETE("/api/catalog/:id/:hash", h.handleCatalogDeleteOne)
}

func (h *Handler) handleHome(c *gin.Context) {
	c.String(200, "GoStremioBR is running. Install via /manifest.json.")
}
