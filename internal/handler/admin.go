package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	"culture-explorer/internal/models"

	"github.com/gin-gonic/gin"
)

// RequireAdminKey guards the admin routes with a shared key carried in the
// X-Admin-Key header. Both sides must be non-empty; an unconfigured key
// locks the console rather than opening it.
func RequireAdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Admin-Key")
		if key == "" || provided == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// AdminHandler handles moderation requests.
type AdminHandler struct {
	service AdminService
}

// AdminService interface for dependency injection.
type AdminService interface {
	Pending(ctx context.Context) ([]models.Entry, error)
	List(ctx context.Context, statusFilter string) ([]models.Entry, error)
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// Pending handles GET /admin/pending requests.
func (h *AdminHandler) Pending(c *gin.Context) {
	entries, err := h.service.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// List handles GET /admin/entries requests with an optional status filter.
func (h *AdminHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type moderationRequest struct {
	ID int64 `json:"id"`
}

// Approve handles POST /admin/entries/approve requests.
func (h *AdminHandler) Approve(c *gin.Context) {
	h.moderate(c, h.service.Approve)
}

// Reject handles POST /admin/entries/reject requests.
func (h *AdminHandler) Reject(c *gin.Context) {
	h.moderate(c, h.service.Reject)
}

// Delete handles POST /admin/entries/delete requests.
func (h *AdminHandler) Delete(c *gin.Context) {
	h.moderate(c, h.service.Delete)
}

func (h *AdminHandler) moderate(c *gin.Context, action func(context.Context, int64) error) {
	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}

	if err := action(c.Request.Context(), req.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
