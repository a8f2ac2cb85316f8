package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"academy/lms-backend/internal/logger"
	"academy/lms-backend/internal/service"
	"academy/lms-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Error codes returned in the "error" field of failed responses.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeNoFile           = "NO_FILE_UPLOADED"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidFileType  = "INVALID_FILE_TYPE"
	CodeMissingStorage   = "MISSING_STORAGE_CONFIG"
	CodeInternal         = "INTERNAL_ERROR"
	internalErrorMessage = "Internal server error"
)

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`
	Details []FieldError `json:"details,omitempty"`
	Stack   string       `json:"stack,omitempty"`
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Message: message})
}

func abortWithCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Error: code})
}

// abortWithValidation renders binding failures with one detail per field.
func abortWithValidation(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Invalid request body: "+err.Error())
		return
	}
	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Message: ruleMessage(fe),
		})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Message: "Validation error",
		Error:   CodeValidation,
		Details: details,
	})
}

// abortWithServiceError maps service and storage errors to responses.
// Anything unrecognized is logged and hidden behind a generic 500.
func abortWithServiceError(c *gin.Context, log logrus.FieldLogger, err error) {
	var se *storage.Error
	switch {
	case errors.Is(err, service.ErrValidation):
		abortWithCode(c, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		abortWithCode(c, http.StatusNotFound, CodeNotFound, capitalize(err.Error()))
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithCode(c, http.StatusConflict, CodeConflict, "User already exists")
	case errors.Is(err, service.ErrUserNotFound):
		abortWithCode(c, http.StatusUnauthorized, CodeUnauthorized, "User no longer exists")
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithCode(c, http.StatusUnauthorized, CodeUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrStorageNotConfigured):
		abortWithCode(c, http.StatusBadRequest, CodeMissingStorage, err.Error())
	case errors.As(err, &se):
		logger.FromContext(log, c).WithError(err).WithField("code", se.Code).Error("storage operation failed")
		abortWithCode(c, storage.StatusFor(err), string(se.Code), se.Message)
	default:
		logger.FromContext(log, c).WithError(err).Error("unhandled error")
		abortWithCode(c, http.StatusInternalServerError, CodeInternal, internalErrorMessage)
	}
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report json names (videoUrl)
// instead of Go field names (VideoURL).
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// fieldPath drops the request struct name from the namespace:
// CreateSessionRequest.videos[0].videoUrl -> videos[0].videoUrl
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " failed the " + fe.Tag() + " rule"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
