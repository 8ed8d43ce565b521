package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/shopzone/shopzone-backend/internal/errors"
	"github.com/shopzone/shopzone-backend/internal/middleware"
	"github.com/shopzone/shopzone-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s3Storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: s3Storage,
	}
}

type PresignUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
}

// PresignProductImage issues a presigned URL for a product image (admin)
// POST /api/uploads/product-image
func (ctrl *UploadController) PresignProductImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presign request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid upload data")
		return
	}

	if err := storage.ValidateImageUpload(req.Size, req.ContentType); err != nil {
		log.Warn("Upload validation failed", map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"size":         req.Size,
		})
		apierrors.BadRequest(c, apierrors.UploadInvalidFileType, err.Error())
		return
	}

	presigned, err := ctrl.storage.PresignUpload(req.Filename, req.ContentType, "products")
	if err != nil {
		log.Error("Failed to presign upload", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apierrors.RespondWithError(c, http.StatusInternalServerError, apierrors.UploadFailed, "failed to prepare upload")
		return
	}

	c.JSON(http.StatusOK, presigned)
}
