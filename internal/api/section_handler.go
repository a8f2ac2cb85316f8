package api

import (
	"net/http"

	"academy/lms-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionHandler serves sections.
type SectionHandler struct {
	sectionService service.SectionService
	log            logrus.FieldLogger
}

// NewSectionHandler creates a new SectionHandler.
func NewSectionHandler(sectionService service.SectionService, log logrus.FieldLogger) *SectionHandler {
	return &SectionHandler{sectionService: sectionService, log: log.WithField("component", "api.section")}
}

type CreateSectionRequest struct {
	CourseID string `json:"courseId" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Order    int    `json:"order"`
}

// CreateSection godoc
// @Summary Create a section in a course
// @Tags Sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param section body CreateSectionRequest true "Section details"
// @Success 201 {object} domain.Section
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /sections [post]
func (h *SectionHandler) CreateSection(c *gin.Context) {
	var req CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Invalid courseId format")
		return
	}

	section, err := h.sectionService.CreateSection(c.Request.Context(), courseID, req.Title, req.Order)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

// ListSectionsByCourse godoc
// @Summary List the sections of a course
// @Tags Sections
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {array} domain.Section
// @Router /sections/by-course/{courseId} [get]
func (h *SectionHandler) ListSectionsByCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}
	sections, err := h.sectionService.ListSectionsByCourse(c.Request.Context(), courseID)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}
