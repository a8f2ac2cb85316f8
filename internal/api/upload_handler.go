package api

import (
	"errors"
	"io"
	"net/http"

	"academy/lms-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UploadHandler answers the upload routes once UploadGate has stored the file.
type UploadHandler struct {
	uploadService service.UploadService
	log           logrus.FieldLogger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService, log logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, log: log.WithField("component", "api.upload")}
}

// Upload godoc
// @Summary Upload a file
// @Description Stores one file sent as multipart field "file". Optional form fields courseTitle and sessionTitle shape the storage folder.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.UploadResult
// @Failure 400 {object} ErrorResponse "Missing file or invalid type"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 502 {object} ErrorResponse "Storage provider unavailable"
// @Failure 504 {object} ErrorResponse "Storage provider timed out"
// @Router /uploads/{kind} [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	result, ok := uploadResultFromContext(c)
	if !ok {
		abortWithCode(c, http.StatusInternalServerError, CodeInternal, "Failed to get file URL from storage")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Config godoc
// @Summary Describe the upload destination
// @Tags Uploads
// @Accept json
// @Produce json
// @Param request body service.UploadConfigRequest false "Resource type and titles"
// @Success 200 {object} service.UploadConfigResponse
// @Failure 400 {object} ErrorResponse "Storage not configured"
// @Router /uploads/config [post]
func (h *UploadHandler) Config(c *gin.Context) {
	var req service.UploadConfigRequest
	// The body is optional.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithValidation(c, err)
		return
	}

	resp, err := h.uploadService.Config(c.Request.Context(), req)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
