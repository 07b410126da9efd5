package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/helpinghands/go-services/internal/storage"
	"github.com/helpinghands/go-services/pkg/logger"
)

// ImageStore is the object-storage surface the uploads handler depends on.
// *storage.MinIOStorage satisfies it.
type ImageStore interface {
	UploadImage(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)
	ObjectURL(ctx context.Context, key string, expires time.Duration) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// UploadsHandler accepts project images, stores them in object storage and
// serves them back.
type UploadsHandler struct {
	store ImageStore
}

func NewUploadsHandler(store ImageStore) *UploadsHandler {
	return &UploadsHandler{store: store}
}

func (h *UploadsHandler) Register(r *gin.Engine, auth gin.HandlerFunc) {
	r.POST("/api/uploads/image", auth, h.UploadImage)
	// images are embedded in public project listings, so no auth on reads
	r.GET("/api/uploads/images/:name", h.GetImage)
}

// UploadImage accepts a multipart "image" field (jpeg/png/gif, up to 5 MiB)
// and returns the stored object's URL for use as a project imageUrl.
func (h *UploadsHandler) UploadImage(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads are not configured"})
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fh.Size > storage.MaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be 5MB or less"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !storage.AllowedImageType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be JPEG, PNG or GIF"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer f.Close()

	key, err := h.store.UploadImage(c.Request.Context(), f, fh.Size, contentType)
	if err != nil {
		logger.Errorf("image upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}
	url, err := h.store.ObjectURL(c.Request.Context(), key, 7*24*time.Hour)
	if err != nil {
		logger.Errorf("image url error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build image url"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key, "url": url})
}

// GetImage streams a previously uploaded image back to the client.
func (h *UploadsHandler) GetImage(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads are not configured"})
		return
	}
	name := c.Param("name")
	contentType := storage.ImageContentType(name)
	if contentType == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}
	obj, err := h.store.Download(c.Request.Context(), "images/"+name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}
	defer obj.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, obj); err != nil {
		logger.Errorf("image stream error: %v", err)
	}
}
