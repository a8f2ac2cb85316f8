package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Address)
	assert.Equal(t, 30*time.Minute, cfg.Server.UploadTimeout)
	assert.Equal(t, 168*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, ProviderS3, cfg.Storage.Provider)
	assert.Equal(t, "storage.googleapis.com", cfg.S3.PublicHost)
	assert.Equal(t, int64(5), cfg.Upload.ThumbnailMaxMB)
	assert.Equal(t, int64(200), cfg.Upload.VideoMaxMB)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_PROVIDER", " Cloudinary ")
	t.Setenv("UPLOAD_VIDEO_MAX_MB", "512")
	t.Setenv("SERVER_ENV", "production")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, ProviderCloudinary, cfg.Storage.Provider)
	assert.Equal(t, int64(512), cfg.Upload.VideoMaxMB)
	assert.True(t, cfg.IsProduction())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFiles(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("database:\n  name: academy\ns3:\n  bucket_name: lms-assets\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("S3_PROJECT_ID=academy-project\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("S3_PROJECT_ID") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "academy", cfg.Database.Name)
	assert.Equal(t, "lms-assets", cfg.S3.BucketName)
	assert.Equal(t, "academy-project", cfg.S3.ProjectID)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{URI: "mongodb://localhost:27017"},
		Storage:  StorageConfig{Provider: ProviderS3},
	}
	assert.Error(t, cfg.Validate(), "missing jwt secret")

	cfg.JWT.Secret = "x"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Provider = "ftp"
	assert.Error(t, cfg.Validate())
}

func TestProviderConfigured(t *testing.T) {
	assert.False(t, S3Config{BucketName: "b"}.Configured())
	assert.True(t, S3Config{BucketName: "b", AccessKeyID: "k", SecretAccessKey: "s"}.Configured())
	assert.False(t, CloudinaryConfig{CloudName: "c"}.Configured())
	assert.True(t, CloudinaryConfig{CloudName: "c", APIKey: "k", APISecret: "s"}.Configured())
}
