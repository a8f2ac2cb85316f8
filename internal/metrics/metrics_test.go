package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUpload(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	r.RecordUpload("video", "s3", OutcomeSuccess, time.Second, 1024)
	r.RecordUpload("video", "", OutcomeRejected, 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploads.WithLabelValues("video", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploads.WithLabelValues("video", OutcomeRejected)))
	assert.Equal(t, 1024.0, testutil.ToFloat64(r.uploadBytes.WithLabelValues("video")))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() { r.RecordUpload("pdf", "s3", OutcomeFailed, time.Second, 1) })
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := New(nil)
	require.NoError(t, err)

	router := gin.New()
	router.Use(r.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", r.Handler())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("/ping", http.MethodGet, "204")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lms_http_requests_total")
}
