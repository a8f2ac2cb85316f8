package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
)

// Provider resource types. Cloudinary needs them to pick an upload API;
// the object-store adapter ignores them.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
	ResourceRaw   = "raw"
)

// UploadInput describes one object to store.
type UploadInput struct {
	Body         io.Reader
	Size         int64
	Path         string // destination path, see ObjectPath
	ContentType  string
	ResourceType string
	Metadata     map[string]string
}

// Result is the provider-independent outcome of an upload.
type Result struct {
	URL       string
	StorageID string
	Size      int64
}

// Adapter wraps one object-storage provider.
type Adapter interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	// Upload stores the object, makes it publicly readable and returns its public URL.
	// A failed "make public" step is logged, not returned.
	Upload(ctx context.Context, in UploadInput) (*Result, error)
	// Delete removes the object identified by storageID.
	Delete(ctx context.Context, storageID string) error
	// Check verifies connectivity and credentials.
	Check(ctx context.Context) error
}

// Code classifies storage failures for the API layer.
type Code string

const (
	CodeUnavailable   Code = "STORAGE_UNAVAILABLE"
	CodeTimeout       Code = "STORAGE_TIMEOUT"
	CodeMisconfigured Code = "STORAGE_MISCONFIGURED"
	CodeRejected      Code = "STORAGE_REJECTED"
	CodeInternal      Code = "STORAGE_ERROR"
)

// Error is returned by adapters for every provider-side failure.
type Error struct {
	Code       Code
	Message    string
	HTTPStatus int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusFor returns the HTTP status a client should see for err.
func StatusFor(err error) int {
	var se *Error
	if errors.As(err, &se) && se.HTTPStatus != 0 {
		return se.HTTPStatus
	}
	return http.StatusInternalServerError
}

// NotConfigured is returned when the selected provider lacks settings.
func NotConfigured(msg string) *Error {
	return &Error{Code: CodeMisconfigured, Message: msg, HTTPStatus: http.StatusBadRequest}
}

// classify turns a provider failure into an *Error. status is the provider's
// HTTP status when known, otherwise 0 and the message is used as a hint.
func classify(provider string, status int, err error) *Error {
	msg := strings.ToLower(err.Error())

	switch {
	case status == http.StatusGatewayTimeout ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return &Error{
			Code:       CodeTimeout,
			Message:    "Upload timed out. Large video files may take longer to upload. Please try again or use a smaller file",
			HTTPStatus: http.StatusGatewayTimeout,
			Err:        err,
		}
	case status >= 500 || unavailable(msg):
		return &Error{
			Code:       CodeUnavailable,
			Message:    provider + " service temporarily unavailable. Please try again in a few moments or use a smaller file",
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	case status == http.StatusUnauthorized || status == http.StatusForbidden || credentialFailure(msg):
		return &Error{
			Code:       CodeMisconfigured,
			Message:    provider + " configuration error. Please check the storage credentials",
			HTTPStatus: http.StatusUnauthorized,
			Err:        err,
		}
	case status == http.StatusBadRequest:
		return &Error{
			Code:       CodeRejected,
			Message:    provider + " upload error. Please check file format and size limits",
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
		}
	default:
		return &Error{
			Code:       CodeInternal,
			Message:    provider + " request failed",
			HTTPStatus: http.StatusInternalServerError,
			Err:        err,
		}
	}
}

var unavailableHints = []string{
	"502",
	"503",
	"bad gateway",
	"service unavailable",
}

func unavailable(msg string) bool {
	for _, h := range unavailableHints {
		if strings.Contains(msg, h) {
			return true
		}
	}
	return false
}

var credentialHints = []string{
	"invalid api_key",
	"invalid signature",
	"invalidaccesskeyid",
	"signaturedoesnotmatch",
	"accessdenied",
	"unknown api key",
}

func credentialFailure(msg string) bool {
	for _, h := range credentialHints {
		if strings.Contains(msg, h) {
			return true
		}
	}
	return false
}
