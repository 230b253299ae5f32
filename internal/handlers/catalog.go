package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gostremiobr/gostremiobr/internal/magnet"
	"github.com/gostremiobr/gostremiobr/internal/models"
)

type catalogAddRequest struct {
	Magnet string `json:"magnet" binding:"required"`
	Title  string `json:"title"`
}

// handleCatalogAdd stores a curated magnet for a content id and invalidates
// every cached stream and season entry derived from it.
func (h *Handler) handleCatalogAdd(c *gin.Context) {
	contentID := c.Param("id")
	if !imdbIDRegex.MatchString(contentID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return
	}

	var req catalogAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "magnet field is required"})
		return
	}
	if !magnet.Valid(req.Magnet) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed magnet URI"})
		return
	}

	entry := models.CuratedMagnet{
		ContentID: contentID,
		Magnet:    req.Magnet,
		Title:     req.Title,
		AddedAt:   time.Now(),
	}
	if err := h.services.DB.StoreMagnet(entry); err != nil {
		h.services.Logger.Errorf("[CatalogHandler] storing magnet for %s failed: %v", contentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store magnet"})
		return
	}

	h.services.Streams.InvalidateContent(contentID)
	c.JSON(http.StatusCreated, gin.H{"status": "stored"})
}

// handleCatalogDelete removes every curated magnet of a content id.
func (h *Handler) handleCatalogDelete(c *gin.Context) {
	contentID := c.Param("id")

	deleted, err := h.services.DB.DeleteMagnets(contentID)
	if err != nil {
		h.services.Logger.Errorf("[CatalogHandler] deleting magnets for %s failed: %v", contentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete magnets"})
		return
	}

	h.services.Streams.InvalidateContent(contentID)
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// handleCatalogDeleteOne removes a single curated magnet by info hash.
func (h *Handler) handleCatalogDeleteOne(c *gin.Context) {
	contentID := c.Param("id")
	hash := c.Param("hash")

	if err := h.services.DB.DeleteMagnet(contentID, hash); err != nil {
		h.services.Logger.Errorf("[CatalogHandler] deleting magnet %s of %s failed: %v", hash, contentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete magnet"})
		return
	}

	h.services.Streams.InvalidateContent(contentID)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
