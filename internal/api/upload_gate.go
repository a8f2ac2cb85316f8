package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/logger"
	"academy/lms-backend/internal/metrics"
	"academy/lms-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// ContextUploadKey holds the *domain.UploadResult set by UploadGate.
	ContextUploadKey = "uploadResult"
	uploadFormField  = "file"
	// multipart framing and the optional title fields on top of the file itself
	multipartOverhead = 1 << 20
)

// UploadGate validates the single multipart file of an upload route,
// buffers it and stores it through the upload service. On success the
// result is attached to the context for the next handler; a file that
// fails validation never reaches storage.
func UploadGate(kind service.UploadKind, uploads service.UploadService, rec *metrics.Recorder, log logrus.FieldLogger) gin.HandlerFunc {
	log = log.WithFields(logrus.Fields{"component": "api.upload_gate", "kind": kind.Name})
	tooLarge := fmt.Sprintf("File too large. Maximum size is %dMB", kind.MaxMB())

	reject := func(c *gin.Context, status int, code, message string) {
		rec.RecordUpload(kind.Name, "", metrics.OutcomeRejected, 0, 0)
		logger.FromContext(log, c).WithField("reason", code).Warn("upload rejected")
		abortWithCode(c, status, code, message)
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > kind.MaxBytes+multipartOverhead {
			reject(c, http.StatusRequestEntityTooLarge, CodeFileTooLarge, tooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, kind.MaxBytes+multipartOverhead)

		fh, err := c.FormFile(uploadFormField)
		switch {
		case err == nil:
		case isBodyTooLarge(err):
			reject(c, http.StatusRequestEntityTooLarge, CodeFileTooLarge, tooLarge)
			return
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			reject(c, http.StatusBadRequest, CodeNoFile, "No file uploaded. Please select a file and try again.")
			return
		default:
			reject(c, http.StatusBadRequest, CodeValidation, "Upload error: "+err.Error())
			return
		}

		if fh.Size > kind.MaxBytes {
			reject(c, http.StatusRequestEntityTooLarge, CodeFileTooLarge, tooLarge)
			return
		}
		declared := fh.Header.Get("Content-Type")
		if !kind.Accepts(declared, fh.Filename) {
			reject(c, http.StatusBadRequest, CodeInvalidFileType, invalidTypeMessage(kind, declared))
			return
		}

		f, err := fh.Open()
		if err != nil {
			reject(c, http.StatusBadRequest, CodeValidation, "Could not read uploaded file")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			reject(c, http.StatusBadRequest, CodeValidation, "Could not read uploaded file")
			return
		}

		result, err := uploads.Upload(c.Request.Context(), service.UploadRequest{
			Kind:         kind,
			Filename:     fh.Filename,
			ContentType:  declared,
			Data:         data,
			CourseTitle:  c.PostForm("courseTitle"),
			SessionTitle: c.PostForm("sessionTitle"),
		})
		if err != nil {
			abortWithServiceError(c, log, err)
			return
		}

		c.Set(ContextUploadKey, result)
		c.Next()
	}
}

// uploadResultFromContext returns the result attached by UploadGate.
func uploadResultFromContext(c *gin.Context) (*domain.UploadResult, bool) {
	raw, ok := c.Get(ContextUploadKey)
	if !ok {
		return nil, false
	}
	result, ok := raw.(*domain.UploadResult)
	return result, ok && result != nil
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

func invalidTypeMessage(kind service.UploadKind, declared string) string {
	if declared == "" {
		declared = "unknown"
	}
	msg := fmt.Sprintf("Invalid file type: %s. Allowed mimes: %s", declared, strings.Join(kind.MIMETypes, ", "))
	if len(kind.Extensions) > 0 {
		msg += ". Allowed extensions: ." + strings.Join(kind.Extensions, ", .")
	}
	return msg
}
