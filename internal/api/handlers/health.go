package handlers

import (
	"net/http"

	"commodity-forecast/internal/api/models"

	"github.com/gin-gonic/gin"
)

// Sized reports how many observations are loaded.
type Sized interface {
	Len() int
}

// Health handles GET /health
func Health(store Sized) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", Observations: store.Len()})
	}
}
