package api

import (
	"net/http"

	"academy/lms-backend/internal/content"
	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler serves sessions and their content.
type SessionHandler struct {
	sessionService service.SessionService
	log            logrus.FieldLogger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService, log logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, log: log.WithField("component", "api.session")}
}

// CreateSessionRequest accepts the content arrays and the legacy
// single-URL fields. Items supplied in the arrays must carry a title, a
// URL and a storage id.
type CreateSessionRequest struct {
	SectionID        string                `json:"sectionId" binding:"required"`
	Title            string                `json:"title" binding:"required"`
	Description      string                `json:"description"`
	Videos           []domain.VideoItem    `json:"videos" binding:"dive"`
	Ppts             []domain.PptItem      `json:"ppts" binding:"dive"`
	Materials        []domain.MaterialItem `json:"materials" binding:"dive"`
	StudyMaterialURL string                `json:"studyMaterialUrl"`
	PptURL           string                `json:"pptUrl"`
	VideoURL         string                `json:"videoUrl"`
	Duration         string                `json:"duration"`
}

type AddContentRequest struct {
	Videos    []domain.VideoItem    `json:"videos" binding:"dive"`
	Ppts      []domain.PptItem      `json:"ppts" binding:"dive"`
	Materials []domain.MaterialItem `json:"materials" binding:"dive"`
}

type sectionWithCourse struct {
	*domain.Section
	Course *domain.Course `json:"course"`
}

// SessionDetailResponse is a session with its section, and the section's course, embedded.
type SessionDetailResponse struct {
	*domain.Session
	Section *sectionWithCourse `json:"section"`
}

// CreateSession godoc
// @Summary Create a session
// @Description Legacy videoUrl/pptUrl/studyMaterialUrl fields become one-item arrays when the matching array is empty.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body CreateSessionRequest true "Session details"
// @Success 201 {object} domain.Session
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Section not found"
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}
	sectionID, err := primitive.ObjectIDFromHex(req.SectionID)
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Invalid sectionId format")
		return
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), service.CreateSessionInput{
		SectionID:   sectionID,
		Title:       req.Title,
		Description: req.Description,
		Videos:      req.Videos,
		Ppts:        req.Ppts,
		Materials:   req.Materials,
		Legacy: domain.LegacyContent{
			StudyMaterialURL: req.StudyMaterialURL,
			PptURL:           req.PptURL,
			VideoURL:         req.VideoURL,
			Duration:         req.Duration,
		},
	})
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// ListSessionsBySection godoc
// @Summary List the sessions of a section
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param sort query string false "order: sort content items by their order field"
// @Success 200 {array} domain.Session
// @Router /sessions/by-section/{sectionId} [get]
func (h *SessionHandler) ListSessionsBySection(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "sectionId")
	if !ok {
		return
	}
	sessions, err := h.sessionService.ListSessionsBySection(c.Request.Context(), sectionID)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	if sortByOrder(c) {
		for i := range sessions {
			sortContent(&sessions[i])
		}
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSession godoc
// @Summary Get a session with its section and course
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param sort query string false "order: sort content items by their order field"
// @Success 200 {object} SessionDetailResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.sessionService.GetSessionDetail(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	if sortByOrder(c) {
		sortContent(detail.Session)
	}

	resp := SessionDetailResponse{Session: detail.Session}
	if detail.Section != nil {
		resp.Section = &sectionWithCourse{Section: detail.Section, Course: detail.Course}
	}
	c.JSON(http.StatusOK, resp)
}

// AddContent godoc
// @Summary Append content items to a session
// @Description New items go after the existing ones; nothing is removed or renumbered.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param content body AddContentRequest true "Items to append"
// @Success 200 {object} domain.Session
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/add-content [put]
func (h *SessionHandler) AddContent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AddContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	session, err := h.sessionService.AddContent(c.Request.Context(), id, domain.SessionContent{
		Videos:    req.Videos,
		Ppts:      req.Ppts,
		Materials: req.Materials,
	})
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func sortByOrder(c *gin.Context) bool {
	return c.Query("sort") == "order"
}

func sortContent(s *domain.Session) {
	s.Videos = content.SortedVideos(s.Videos)
	s.Ppts = content.SortedPpts(s.Ppts)
	s.Materials = content.SortedMaterials(s.Materials)
}
