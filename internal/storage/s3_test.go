package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"academy/lms-backend/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	put       *s3.PutObjectInput
	body      []byte
	acl       *s3.PutObjectAclInput
	deleted   string
	putErr    error
	aclErr    error
	deleteErr error
	headErr   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) PutObjectAcl(_ context.Context, in *s3.PutObjectAclInput, _ ...func(*s3.Options)) (*s3.PutObjectAclOutput, error) {
	f.acl = in
	if f.aclErr != nil {
		return nil, f.aclErr
	}
	return &s3.PutObjectAclOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = aws.ToString(in.Key)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func newTestS3(f *fakeS3) *S3Adapter {
	return newS3Adapter(f, "lms-bucket", "https://storage.googleapis.com", logger.Discard())
}

func TestS3UploadReturnsPublicURL(t *testing.T) {
	f := &fakeS3{}
	a := newTestS3(f)

	res, err := a.Upload(context.Background(), UploadInput{
		Body:        bytes.NewReader([]byte("video-bytes")),
		Size:        11,
		Path:        "lms/videos/course/session/1-2-intro.mp4",
		ContentType: "video/mp4",
		Metadata:    map[string]string{"originalname": "intro.mp4"},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://storage.googleapis.com/lms-bucket/lms/videos/course/session/1-2-intro.mp4", res.URL)
	assert.Equal(t, "lms/videos/course/session/1-2-intro.mp4", res.StorageID)
	assert.Equal(t, int64(11), res.Size)

	assert.Equal(t, "video-bytes", string(f.body))
	assert.Equal(t, "video/mp4", aws.ToString(f.put.ContentType))
	assert.Equal(t, int64(11), aws.ToInt64(f.put.ContentLength))
	assert.Equal(t, "intro.mp4", f.put.Metadata["originalname"])
	assert.NotEmpty(t, f.put.Metadata["uploadedat"])
	require.NotNil(t, f.acl)
	assert.Equal(t, types.ObjectCannedACLPublicRead, f.acl.ACL)
}

func TestS3UploadSucceedsWhenMakePublicFails(t *testing.T) {
	f := &fakeS3{aclErr: errors.New("uniform bucket-level access is enabled")}
	a := newTestS3(f)

	res, err := a.Upload(context.Background(), UploadInput{Body: bytes.NewReader(nil), Path: "lms/ppts/x.pptx"})
	require.NoError(t, err)
	assert.Equal(t, a.PublicURL("lms/ppts/x.pptx"), res.URL)
}

func TestS3UploadMapsProviderStatus(t *testing.T) {
	f := &fakeS3{putErr: statusError{http.StatusBadGateway}}
	a := newTestS3(f)

	_, err := a.Upload(context.Background(), UploadInput{Body: bytes.NewReader(nil), Path: "p"})
	require.Error(t, err)

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, CodeUnavailable, se.Code)
	assert.Equal(t, http.StatusBadGateway, se.HTTPStatus)
	assert.Nil(t, f.acl, "nothing to make public after a failed put")
}

func TestS3Delete(t *testing.T) {
	f := &fakeS3{}
	a := newTestS3(f)

	require.NoError(t, a.Delete(context.Background(), "lms/materials/a.pdf"))
	assert.Equal(t, "lms/materials/a.pdf", f.deleted)

	f.deleteErr = statusError{http.StatusForbidden}
	err := a.Delete(context.Background(), "lms/materials/a.pdf")
	assert.Equal(t, http.StatusUnauthorized, StatusFor(err))
}

func TestS3Check(t *testing.T) {
	f := &fakeS3{}
	a := newTestS3(f)
	assert.NoError(t, a.Check(context.Background()))

	f.headErr = statusError{http.StatusNotFound}
	assert.Error(t, a.Check(context.Background()))
}
