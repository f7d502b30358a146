package handlers

import (
	"net/http"

	"commodity-forecast/internal/api/models"

	"github.com/gin-gonic/gin"
)

// Catalog lists what the historical store holds.
type Catalog interface {
	Markets() []string
	Varieties(market string) []string
}

// CatalogHandler handles market and variety listings
type CatalogHandler struct {
	catalog Catalog
}

func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListMarkets handles GET /markets
func (h *CatalogHandler) ListMarkets(c *gin.Context) {
	c.JSON(http.StatusOK, models.MarketsResponse{Markets: nonNil(h.catalog.Markets())})
}

// ListVarieties handles GET /varieties?market=
// An unknown market yields an empty list, not an error.
func (h *CatalogHandler) ListVarieties(c *gin.Context) {
	var q models.VarietiesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.VarietiesResponse{Varieties: nonNil(h.catalog.Varieties(q.Market))})
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
