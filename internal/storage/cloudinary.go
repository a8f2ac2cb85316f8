package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"

	"academy/lms-backend/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const cloudinaryProviderName = "Cloudinary"

// cloudinaryAPI is the subset of the Cloudinary upload API the adapter uses.
type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryAdapter uploads to Cloudinary and returns the CDN secure URL.
// The storage id is the Cloudinary public id (folder included).
type CloudinaryAdapter struct {
	api  cloudinaryAPI
	ping func(ctx context.Context) error
	log  logrus.FieldLogger
}

// NewCloudinaryAdapter creates the CDN adapter from configuration.
func NewCloudinaryAdapter(cfg config.CloudinaryConfig, log logrus.FieldLogger) (*CloudinaryAdapter, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create cloudinary client")
	}
	cld.Config.URL.Secure = true

	ping := func(ctx context.Context) error {
		res, err := cld.Admin.Ping(ctx)
		if err != nil {
			return err
		}
		if res.Error.Message != "" {
			return errors.New(res.Error.Message)
		}
		return nil
	}
	log.WithField("cloud", cfg.CloudName).Info("cloudinary adapter initialized")
	return newCloudinaryAdapter(&cld.Upload, ping, log), nil
}

func newCloudinaryAdapter(api cloudinaryAPI, ping func(ctx context.Context) error, log logrus.FieldLogger) *CloudinaryAdapter {
	return &CloudinaryAdapter{api: api, ping: ping, log: log.WithField("component", "storage.cloudinary")}
}

func (a *CloudinaryAdapter) Name() string { return "cloudinary" }

// Upload sends the object to Cloudinary. The folder part of in.Path becomes
// the Cloudinary folder; the file name becomes the public id, without its
// extension for image and video resources since Cloudinary keeps the format apart.
func (a *CloudinaryAdapter) Upload(ctx context.Context, in UploadInput) (*Result, error) {
	resourceType := in.ResourceType
	if resourceType == "" {
		resourceType = "auto"
	}
	folder, file := path.Split(in.Path)
	publicID := file
	if resourceType != ResourceRaw {
		publicID = strings.TrimSuffix(file, path.Ext(file))
	}

	res, err := a.api.Upload(ctx, in.Body, uploader.UploadParams{
		Folder:       strings.TrimSuffix(folder, "/"),
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	switch {
	case err != nil:
	case res == nil:
		err = errors.New("empty upload response")
	case res.Error.Message != "":
		err = errors.New(res.Error.Message)
	}
	if err != nil {
		a.log.WithError(err).WithField("path", in.Path).Error("upload failed")
		return nil, classify(cloudinaryProviderName, cloudinaryStatus(err), pkgerrors.Wrapf(err, "upload %q", in.Path))
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}
	if url == "" || res.PublicID == "" {
		return nil, &Error{
			Code:       CodeInternal,
			Message:    "Cloudinary response is missing the file URL",
			HTTPStatus: http.StatusInternalServerError,
		}
	}

	size := int64(res.Bytes)
	if size == 0 {
		size = in.Size
	}
	a.log.WithField("url", url).Info("upload successful")
	return &Result{URL: url, StorageID: res.PublicID, Size: size}, nil
}

// Delete destroys the asset. The resource type is recovered from the
// folder the asset was uploaded to.
func (a *CloudinaryAdapter) Delete(ctx context.Context, storageID string) error {
	res, err := a.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     storageID,
		ResourceType: resourceTypeForID(storageID),
	})
	if err == nil && res != nil {
		switch {
		case res.Error.Message != "":
			err = errors.New(res.Error.Message)
		case res.Result != "ok":
			err = errors.New("destroy result: " + res.Result)
		}
	}
	if err != nil {
		a.log.WithError(err).WithField("public_id", storageID).Error("delete failed")
		return classify(cloudinaryProviderName, cloudinaryStatus(err), pkgerrors.Wrapf(err, "destroy %q", storageID))
	}
	a.log.WithField("public_id", storageID).Info("asset deleted")
	return nil
}

// Check pings the Cloudinary admin API.
func (a *CloudinaryAdapter) Check(ctx context.Context) error {
	if a.ping == nil {
		return nil
	}
	if err := a.ping(ctx); err != nil {
		return classify(cloudinaryProviderName, cloudinaryStatus(err), pkgerrors.Wrap(err, "ping"))
	}
	return nil
}

// cloudinaryStatus recovers the status the SDK does not report. A body that
// does not decode as JSON came from a proxy or gateway in front of the API.
func cloudinaryStatus(err error) int {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		strings.Contains(err.Error(), "looking for beginning of value") {
		return http.StatusBadGateway
	}
	return 0
}

func resourceTypeForID(publicID string) string {
	switch {
	case strings.HasPrefix(publicID, rootFolder+"/thumbnails/"):
		return ResourceImage
	case strings.HasPrefix(publicID, rootFolder+"/videos/"):
		return ResourceVideo
	default:
		return ResourceRaw
	}
}
