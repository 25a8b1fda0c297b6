package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/touchline/backend/internal/application/catalog"
)

// PublicHandler serves the read-only catalog to the marketing site
type PublicHandler struct {
	CatalogHandler
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(catalogService *catalogapp.CatalogService) *PublicHandler {
	return &PublicHandler{CatalogHandler: CatalogHandler{catalogService: catalogService}}
}

// Catalog returns the full category tree, served from the snapshot cache when warm
func (h *PublicHandler) Catalog(c *gin.Context) {
	public, err := h.catalogService.PublicCatalog(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=60")
	h.Success(c, public)
}
