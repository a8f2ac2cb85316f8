package api

import (
	"net/http"
	"strings"

	"academy/lms-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CourseHandler serves the course tree.
type CourseHandler struct {
	courseService service.CourseService
	log           logrus.FieldLogger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService service.CourseService, log logrus.FieldLogger) *CourseHandler {
	return &CourseHandler{courseService: courseService, log: log.WithField("component", "api.course")}
}

// CreateCourseRequest defines the expected JSON for creating a course.
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
	ParentID    *string `json:"parentId"` // null or absent for a root
	Order       int     `json:"order"`
}

// CreateCourse godoc
// @Summary Create a course
// @Description Creates a root course, or a child when parentId is set. The parent is not checked for existence.
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course body CreateCourseRequest true "Course details"
// @Success 201 {object} domain.Course
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not an admin"
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != nil {
		id, ok := parseOptionalID(c, "parentId", *req.ParentID)
		if !ok {
			return
		}
		parentID = id
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), service.CreateCourseInput{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.Thumbnail,
		ParentID:     parentID,
		Order:        req.Order,
	})
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// ListCourses godoc
// @Summary List courses
// @Description Lists the children of parentId, or the root courses when it is omitted.
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param parentId query string false "Parent course ID"
// @Success 200 {array} domain.Course
// @Failure 400 {object} ErrorResponse "Malformed parentId"
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	parentID, ok := parseOptionalID(c, "parentId", c.Query("parentId"))
	if !ok {
		return
	}
	courses, err := h.courseService.ListCourses(c.Request.Context(), parentID)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary Get a course by ID
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} domain.Course
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	course, err := h.courseService.GetCourseByID(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// parseIDParam reads an ObjectID path parameter, answering 400 when malformed.
func parseIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseOptionalID treats "", "null" and "root" as no id.
func parseOptionalID(c *gin.Context, name, raw string) (*primitive.ObjectID, bool) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "null", "root":
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Invalid "+name+" format")
		return nil, false
	}
	return &id, true
}
