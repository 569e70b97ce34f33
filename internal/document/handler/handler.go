package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docvault/docvault/internal/document/service"
	"github.com/docvault/docvault/pkg/logger"
	"github.com/docvault/docvault/pkg/metrics"
)

// CallerID extracts the authenticated subject that the auth middleware
// placed into the gin context. Empty when the request is unauthenticated.
func CallerID(c *gin.Context) string {
	v, ok := c.Get("claims")
	if !ok {
		return ""
	}
	cm, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := cm["sub"].(string)
	return sub
}

// RegisterDocumentRoutes mounts the document endpoints under rg. The group
// is expected to already carry the auth middleware.
func RegisterDocumentRoutes(rg *gin.RouterGroup, svc *service.Service) {
	d := rg.Group("/docs")

	d.POST("/upload", func(c *gin.Context) {
		owner := CallerID(c)
		if owner == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			logger.Errorf("upload: open multipart file: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while uploading file"})
			return
		}
		defer f.Close()

		doc, err := svc.Upload(c.Request.Context(), owner, fh.Filename, f, fh.Size, fh.Header.Get("Content-Type"))
		if err != nil {
			if errors.Is(err, service.ErrUnsupportedType) {
				metrics.DocumentUploadsRejected.Inc()
				c.JSON(http.StatusBadRequest, gin.H{"message": "Only .pdf, .doc, .docx, .jpg, .jpeg, .png allowed"})
				return
			}
			logger.Errorf("upload error (owner=%s name=%s): %v", owner, fh.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while uploading file"})
			return
		}
		metrics.DocumentUploads.Inc()
		c.JSON(http.StatusCreated, gin.H{"message": "File uploaded successfully", "document": doc})
	})

	d.GET("/mydocs", func(c *gin.Context) {
		owner := CallerID(c)
		if owner == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}
		docs, err := svc.List(c.Request.Context(), owner)
		if err != nil {
			logger.Errorf("list error (owner=%s): %v", owner, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch documents"})
			return
		}
		c.JSON(http.StatusOK, docs)
	})

	d.GET("/download/:id", func(c *gin.Context) {
		owner := CallerID(c)
		if owner == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}
		id := c.Param("id")
		doc, rc, err := svc.Download(c.Request.Context(), owner, id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "Document not found"})
			case errors.Is(err, service.ErrForbidden):
				c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to download this document"})
			case errors.Is(err, service.ErrFileMissing):
				c.JSON(http.StatusNotFound, gin.H{"message": "File missing from server"})
			default:
				logger.Errorf("download error (owner=%s id=%s): %v", owner, id, err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to download document"})
			}
			return
		}
		defer rc.Close()
		metrics.DocumentDownloads.Inc()
		// force a download under the human-readable original name
		extraHeaders := map[string]string{
			"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.OriginalName),
		}
		c.DataFromReader(http.StatusOK, -1, "application/octet-stream", rc, extraHeaders)
	})

	d.DELETE("/:id", func(c *gin.Context) {
		owner := CallerID(c)
		if owner == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}
		id := c.Param("id")
		if err := svc.Delete(c.Request.Context(), owner, id); err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "Document not found"})
			case errors.Is(err, service.ErrForbidden):
				c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to delete this document"})
			default:
				logger.Errorf("delete error (owner=%s id=%s): %v", owner, id, err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete document"})
			}
			return
		}
		metrics.DocumentDeletes.Inc()
		c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
	})
}
