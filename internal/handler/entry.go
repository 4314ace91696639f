package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"culture-explorer/internal/models"
	"culture-explorer/internal/service"

	"github.com/gin-gonic/gin"
)

// EntryHandler handles public entry requests.
type EntryHandler struct {
	service EntryService
}

// EntryService interface for dependency injection.
type EntryService interface {
	ListApproved(ctx context.Context, search string) ([]models.Entry, error)
	Get(ctx context.Context, id int64) (*models.Entry, error)
	Submit(ctx context.Context, sub service.Submission) (int64, error)
}

// NewEntryHandler creates a new entry handler.
func NewEntryHandler(svc EntryService) *EntryHandler {
	return &EntryHandler{service: svc}
}

// List handles GET /entries requests.
func (h *EntryHandler) List(c *gin.Context) {
	entries, err := h.service.ListApproved(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Get handles GET /entries/:id requests.
func (h *EntryHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	entry, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Submit handles POST /entries multipart requests from the public form.
func (h *EntryHandler) Submit(c *gin.Context) {
	sub := service.Submission{
		Type:         c.PostForm("type"),
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		Country:      c.PostForm("country"),
		City:         c.PostForm("city"),
		Zipcode:      c.PostForm("zipcode"),
		Address:      c.PostForm("address"),
		Community:    c.PostForm("community"),
		Link:         c.PostForm("link"),
		ConsentStore: c.PostForm("consent_store") == "true",
		ConsentShare: c.PostForm("consent_share") == "true",
	}

	file, err := c.FormFile("photo")
	if err == nil {
		opened, openErr := file.Open()
		if openErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo upload"})
			return
		}
		defer opened.Close()

		sub.Photo = opened
		sub.PhotoFilename = file.Filename
		sub.PhotoContentType = file.Header.Get("Content-Type")
	}

	id, err := h.service.Submit(c.Request.Context(), sub)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "status": models.StatusPending})
}
