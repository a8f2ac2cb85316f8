package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage provider names accepted by storage.provider.
const (
	ProviderS3         = "s3"
	ProviderCloudinary = "cloudinary"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Storage    StorageConfig    `mapstructure:"storage"`
	S3         S3Config         `mapstructure:"s3"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Address       string        `mapstructure:"address"`
	Env           string        `mapstructure:"env"`
	CORSOrigins   string        `mapstructure:"cors_origins"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	UploadTimeout time.Duration `mapstructure:"upload_timeout"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// StorageConfig selects the object-storage adapter used for uploads.
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	ProjectID       string `mapstructure:"project_id"`
	// PublicHost is the host used to build public object URLs:
	// https://{PublicHost}/{BucketName}/{objectPath}
	PublicHost string `mapstructure:"public_host"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// UploadConfig holds the per-route size ceilings in megabytes.
type UploadConfig struct {
	ThumbnailMaxMB int64 `mapstructure:"thumbnail_max_mb"`
	PDFMaxMB       int64 `mapstructure:"pdf_max_mb"`
	PPTMaxMB       int64 `mapstructure:"ppt_max_mb"`
	VideoMaxMB     int64 `mapstructure:"video_max_mb"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// IsProduction reports whether the server runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret (JWT_SECRET) is not set")
	}
	if c.Database.URI == "" {
		return errors.New("database.uri (DATABASE_URI) is not set")
	}
	switch c.Storage.Provider {
	case ProviderS3, ProviderCloudinary:
	default:
		return errors.New("storage.provider must be one of: s3, cloudinary")
	}
	return nil
}

// Configured reports whether the object-store adapter has enough settings to upload.
func (c S3Config) Configured() bool {
	return c.BucketName != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Configured reports whether all Cloudinary credentials are present.
func (c CloudinaryConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in path is loaded into the process environment first;
// variables already set in the environment win.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(strings.TrimSuffix(path, "/") + "/.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, err
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return config, err
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, err
	}
	config.Storage.Provider = strings.ToLower(strings.TrimSpace(config.Storage.Provider))
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.upload_timeout", "30m")

	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "lms")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "168h")

	v.SetDefault("storage.provider", ProviderS3)

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.project_id", "")
	v.SetDefault("s3.public_host", "storage.googleapis.com")
	v.SetDefault("s3.use_ssl", true)

	v.SetDefault("cloudinary.cloud_name", "")
	v.SetDefault("cloudinary.api_key", "")
	v.SetDefault("cloudinary.api_secret", "")

	v.SetDefault("upload.thumbnail_max_mb", 5)
	v.SetDefault("upload.pdf_max_mb", 25)
	v.SetDefault("upload.ppt_max_mb", 50)
	v.SetDefault("upload.video_max_mb", 200)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", true)
}
