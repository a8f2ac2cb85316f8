package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"academy/lms-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const s3ProviderName = "Object storage"

// s3API is the subset of *s3.Client the adapter uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	PutObjectAcl(ctx context.Context, params *s3.PutObjectAclInput, optFns ...func(*s3.Options)) (*s3.PutObjectAclOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Adapter stores objects in an S3-compatible bucket (AWS, MinIO, or
// Google Cloud Storage through its XML interoperability endpoint) and
// serves them from https://{publicHost}/{bucket}/{path}.
type S3Adapter struct {
	client     s3API
	bucketName string
	publicBase string
	log        logrus.FieldLogger
}

// NewS3Adapter creates the object-store adapter from configuration.
func NewS3Adapter(cfg config.S3Config, log logrus.FieldLogger) (*S3Adapter, error) {
	// Custom resolver for S3-compatible endpoints (like MinIO, GCS interop)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fallback to default AWS endpoint resolution if no custom endpoint is set
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load AWS SDK config")
	}

	// Path-style addressing is required by most S3-compatible services.
	client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	scheme := "https"
	if !cfg.UseSSL {
		scheme = "http"
	}
	log.WithFields(logrus.Fields{"endpoint": cfg.Endpoint, "bucket": cfg.BucketName}).Info("object storage adapter initialized")

	return newS3Adapter(client, cfg.BucketName, fmt.Sprintf("%s://%s", scheme, cfg.PublicHost), log), nil
}

func newS3Adapter(client s3API, bucket, publicBase string, log logrus.FieldLogger) *S3Adapter {
	return &S3Adapter{
		client:     client,
		bucketName: bucket,
		publicBase: publicBase,
		log:        log.WithField("component", "storage.s3"),
	}
}

func (s *S3Adapter) Name() string { return "s3" }

// PublicURL is the deterministic public URL of objectPath.
func (s *S3Adapter) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucketName, objectPath)
}

// Upload writes the object and then grants public read on it.
// The storage id is the object path.
func (s *S3Adapter) Upload(ctx context.Context, in UploadInput) (*Result, error) {
	metadata := map[string]string{"uploadedat": time.Now().UTC().Format(time.RFC3339)}
	for k, v := range in.Metadata {
		metadata[k] = v
	}

	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucketName),
		Key:          aws.String(in.Path),
		Body:         in.Body,
		ContentType:  aws.String(in.ContentType),
		CacheControl: aws.String("public, max-age=3600"),
		Metadata:     metadata,
	}
	if in.Size > 0 {
		input.ContentLength = aws.Int64(in.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.log.WithError(err).WithField("key", in.Path).Error("upload failed")
		return nil, classify(s3ProviderName, httpStatusOf(err), pkgerrors.Wrapf(err, "put object %q", in.Path))
	}

	_, err := s.client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(in.Path),
		ACL:    types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		// The object exists; return the URL it is expected to have.
		s.log.WithError(err).WithField("key", in.Path).
			Warn("could not make object public, make sure the bucket allows public access")
	}

	url := s.PublicURL(in.Path)
	s.log.WithField("url", url).Info("upload successful")
	return &Result{URL: url, StorageID: in.Path, Size: in.Size}, nil
}

// Delete removes the object at storageID (its path).
func (s *S3Adapter) Delete(ctx context.Context, storageID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(storageID),
	})
	if err != nil {
		s.log.WithError(err).WithField("key", storageID).Error("delete failed")
		return classify(s3ProviderName, httpStatusOf(err), pkgerrors.Wrapf(err, "delete object %q", storageID))
	}
	s.log.WithField("key", storageID).Info("object deleted")
	return nil
}

// Check verifies that the bucket exists and is reachable with the configured credentials.
func (s *S3Adapter) Check(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucketName)}); err != nil {
		return classify(s3ProviderName, httpStatusOf(err), pkgerrors.Wrapf(err, "head bucket %q", s.bucketName))
	}
	return nil
}

// httpStatusOf extracts the HTTP status from SDK response errors, or 0.
func httpStatusOf(err error) int {
	var re interface{ HTTPStatusCode() int }
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	return 0
}
