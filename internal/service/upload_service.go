package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"academy/lms-backend/internal/config"
	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/metrics"
	"academy/lms-backend/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

const (
	mb                = int64(1 << 20)
	octetStream       = "application/octet-stream"
	defaultUploadWait = 30 * time.Minute
)

// UploadKind is the rule set of one upload route.
type UploadKind struct {
	Name         string // route suffix: thumbnail, pdf, ppt, video
	Folder       string // second path segment under lms/
	ResourceType string
	MaxBytes     int64
	MIMETypes    []string
	Extensions   []string // lower-case, without the dot
}

// Accepts reports whether a file passes the type check. The declared MIME
// type is checked first; the extension is only a fallback, since some
// browsers send a generic type for office and video files.
func (k UploadKind) Accepts(mimeType, filename string) bool {
	if slices.Contains(k.MIMETypes, strings.ToLower(mimeType)) {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ext != "" && slices.Contains(k.Extensions, ext)
}

// MaxMB is MaxBytes in whole megabytes, for messages.
func (k UploadKind) MaxMB() int64 { return k.MaxBytes / mb }

// UploadKinds returns the rules of the four upload routes keyed by name.
func UploadKinds(cfg config.UploadConfig) map[string]UploadKind {
	return map[string]UploadKind{
		"thumbnail": {
			Name:         "thumbnail",
			Folder:       "thumbnails",
			ResourceType: storage.ResourceImage,
			MaxBytes:     cfg.ThumbnailMaxMB * mb,
			MIMETypes:    []string{"image/jpeg", "image/jpg", "image/png", "image/webp"},
		},
		"pdf": {
			Name:         "pdf",
			Folder:       "materials",
			ResourceType: storage.ResourceRaw,
			MaxBytes:     cfg.PDFMaxMB * mb,
			MIMETypes:    []string{"application/pdf"},
		},
		"ppt": {
			Name:         "ppt",
			Folder:       "ppts",
			ResourceType: storage.ResourceRaw,
			MaxBytes:     cfg.PPTMaxMB * mb,
			MIMETypes: []string{
				"application/vnd.ms-powerpoint",
				"application/vnd.openxmlformats-officedocument.presentationml.presentation",
				octetStream,
			},
			Extensions: []string{"ppt", "pptx"},
		},
		"video": {
			Name:         "video",
			Folder:       "videos",
			ResourceType: storage.ResourceVideo,
			MaxBytes:     cfg.VideoMaxMB * mb,
			MIMETypes:    []string{"video/mp4", "video/webm", "video/quicktime", "video/x-msvideo"},
			Extensions:   []string{"mp4", "webm", "mov", "avi", "m4v"},
		},
	}
}

// UploadRequest is one validated, fully buffered file.
type UploadRequest struct {
	Kind         UploadKind
	Filename     string
	ContentType  string // as declared by the client
	Data         []byte
	CourseTitle  string
	SessionTitle string
}

// UploadConfigRequest is the body of the upload config endpoint.
type UploadConfigRequest struct {
	ResourceType string `json:"resourceType"`
	CourseTitle  string `json:"courseTitle"`
	SessionTitle string `json:"sessionTitle"`
	ContentType  string `json:"contentType"`
}

// UploadConfigResponse tells a client where files of a given type go.
type UploadConfigResponse struct {
	BucketName     string `json:"bucketName"`
	ProjectID      string `json:"projectId"`
	ResourceType   string `json:"resourceType"`
	Folder         string `json:"folder"`
	UploadEndpoint string `json:"uploadEndpoint"`
}

type UploadService interface {
	// Upload stores req and returns the normalized result. The call is not
	// cancelled when ctx is; it is bounded by the configured upload timeout.
	Upload(ctx context.Context, req UploadRequest) (*domain.UploadResult, error)
	// Config describes the destination of uploads without storing anything.
	Config(ctx context.Context, req UploadConfigRequest) (*UploadConfigResponse, error)
}

// uploadService implements the UploadService interface.
type uploadService struct {
	provider *storage.Provider
	s3Cfg    config.S3Config
	timeout  time.Duration
	metrics  *metrics.Recorder
	log      logrus.FieldLogger
}

// NewUploadService creates a new instance of uploadService.
func NewUploadService(provider *storage.Provider, s3Cfg config.S3Config, timeout time.Duration, rec *metrics.Recorder, log logrus.FieldLogger) UploadService {
	if timeout <= 0 {
		timeout = defaultUploadWait
	}
	return &uploadService{
		provider: provider,
		s3Cfg:    s3Cfg,
		timeout:  timeout,
		metrics:  rec,
		log:      log.WithField("component", "service.upload"),
	}
}

func (s *uploadService) Upload(ctx context.Context, req UploadRequest) (*domain.UploadResult, error) {
	adapter, err := s.provider.Adapter()
	if err != nil {
		s.metrics.RecordUpload(req.Kind.Name, "", metrics.OutcomeFailed, 0, 0)
		return nil, err
	}

	objectPath := storage.ObjectPath(req.Kind.Folder, req.CourseTitle, req.SessionTitle, storage.NewFilename(req.Filename))
	contentType := req.ContentType
	if contentType == "" || contentType == octetStream {
		contentType = mimetype.Detect(req.Data).String()
	}
	log := s.log.WithFields(logrus.Fields{
		"kind":     req.Kind.Name,
		"provider": adapter.Name(),
		"path":     objectPath,
		"size":     len(req.Data),
	})
	log.Info("uploading file")

	uploadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	res, err := adapter.Upload(uploadCtx, storage.UploadInput{
		Body:         bytes.NewReader(req.Data),
		Size:         int64(len(req.Data)),
		Path:         objectPath,
		ContentType:  contentType,
		ResourceType: req.Kind.ResourceType,
		Metadata:     map[string]string{"originalname": storage.SanitizeFilename(req.Filename)},
	})
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.RecordUpload(req.Kind.Name, adapter.Name(), metrics.OutcomeFailed, elapsed, 0)
		log.WithError(err).Error("upload failed")
		return nil, err
	}
	if res.URL == "" || res.StorageID == "" {
		s.metrics.RecordUpload(req.Kind.Name, adapter.Name(), metrics.OutcomeFailed, elapsed, 0)
		return nil, &storage.Error{
			Code:       storage.CodeInternal,
			Message:    "Storage response is missing the file URL",
			HTTPStatus: http.StatusInternalServerError,
		}
	}
	s.metrics.RecordUpload(req.Kind.Name, adapter.Name(), metrics.OutcomeSuccess, elapsed, res.Size)
	log.WithField("url", res.URL).Info("upload successful")

	return &domain.UploadResult{
		URL:          res.URL,
		StorageID:    res.StorageID,
		OriginalName: req.Filename,
		ResourceKind: resourceKind(req.ContentType),
		SizeBytes:    int64(len(req.Data)),
	}, nil
}

func (s *uploadService) Config(_ context.Context, req UploadConfigRequest) (*UploadConfigResponse, error) {
	if s.s3Cfg.BucketName == "" || s.s3Cfg.ProjectID == "" {
		return nil, fmt.Errorf("%w: set S3_BUCKET_NAME and S3_PROJECT_ID", ErrStorageNotConfigured)
	}
	if req.ResourceType == "" {
		req.ResourceType = storage.ResourceVideo
	}
	if req.ContentType == "" {
		req.ContentType = "videos"
	}

	// Titles only shape the folder when both are present.
	folder := storage.Folder(req.ContentType, "", "")
	if strings.TrimSpace(req.CourseTitle) != "" && strings.TrimSpace(req.SessionTitle) != "" {
		folder = storage.Folder(req.ContentType, req.CourseTitle, req.SessionTitle)
	}

	return &UploadConfigResponse{
		BucketName:     s.s3Cfg.BucketName,
		ProjectID:      s.s3Cfg.ProjectID,
		ResourceType:   req.ResourceType,
		Folder:         folder,
		UploadEndpoint: uploadEndpointFor(req.ResourceType),
	}, nil
}

func uploadEndpointFor(resourceType string) string {
	switch resourceType {
	case storage.ResourceImage:
		return "/api/uploads/thumbnail"
	case storage.ResourceRaw:
		return "/api/uploads/pdf"
	default:
		return "/api/uploads/video"
	}
}

// resourceKind is the top-level MIME type (image, video, application), or "file".
func resourceKind(mimeType string) string {
	if kind, _, _ := strings.Cut(mimeType, "/"); kind != "" {
		return kind
	}
	return "file"
}

