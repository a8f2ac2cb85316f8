package storage

import (
	"sync"

	"academy/lms-backend/internal/config"

	"github.com/sirupsen/logrus"
)

// Provider hands out the configured Adapter. The adapter is built on first
// use, at most once per process; a missing configuration does not stop the
// server from starting, it makes uploads fail with CodeMisconfigured.
type Provider struct {
	once    sync.Once
	build   func() (Adapter, error)
	adapter Adapter
	err     error
}

// NewProvider selects the adapter named by cfg.Storage.Provider.
func NewProvider(cfg config.Config, log logrus.FieldLogger) *Provider {
	return NewProviderFunc(func() (Adapter, error) {
		switch cfg.Storage.Provider {
		case config.ProviderCloudinary:
			if !cfg.Cloudinary.Configured() {
				return nil, NotConfigured("Cloudinary is not configured. Set CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
			}
			return NewCloudinaryAdapter(cfg.Cloudinary, log)
		default:
			if !cfg.S3.Configured() {
				return nil, NotConfigured("Object storage is not configured. Set S3_BUCKET_NAME, S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY")
			}
			return NewS3Adapter(cfg.S3, log)
		}
	})
}

// NewProviderFunc wraps an arbitrary constructor.
func NewProviderFunc(build func() (Adapter, error)) *Provider {
	return &Provider{build: build}
}

// Static returns a Provider that always yields a.
func Static(a Adapter) *Provider {
	return NewProviderFunc(func() (Adapter, error) { return a, nil })
}

// Adapter returns the adapter, building it on the first call.
func (p *Provider) Adapter() (Adapter, error) {
	p.once.Do(func() {
		p.adapter, p.err = p.build()
	})
	return p.adapter, p.err
}
