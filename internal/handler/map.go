package handler

import (
	"context"
	"net/http"

	"culture-explorer/internal/models"
	"culture-explorer/internal/service"

	"github.com/gin-gonic/gin"
)

// MapHandler handles map marker requests.
type MapHandler struct {
	service MapService
}

// MapService interface for dependency injection.
type MapService interface {
	Markers(ctx context.Context, typeFilter, search string) (service.MapView, error)
}

// NewMapHandler creates a new map handler.
func NewMapHandler(svc MapService) *MapHandler {
	return &MapHandler{service: svc}
}

// Markers handles GET /map/markers requests. The optional "type" and "q"
// parameters narrow the marker set; the response carries a loading flag the
// client uses to keep its overlay up while pins are still arriving.
func (h *MapHandler) Markers(c *gin.Context) {
	typeFilter := c.Query("type")
	if typeFilter != "" && !models.ValidType(typeFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type filter"})
		return
	}

	view, err := h.service.Markers(c.Request.Context(), typeFilter, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, view)
}
