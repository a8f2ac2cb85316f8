// Package storagetest provides an in-memory storage.Adapter for tests.
package storagetest

import (
	"bytes"
	"context"
	"io"
	"sync"

	"academy/lms-backend/internal/storage"
)

// Object is one stored upload.
type Object struct {
	Input storage.UploadInput
	Data  []byte
}

// Adapter records uploads in memory. Set Err to make every call fail.
type Adapter struct {
	mu      sync.Mutex
	BaseURL string
	Err     error
	objects map[string]Object
	uploads int
}

func New() *Adapter {
	return &Adapter{BaseURL: "https://cdn.test", objects: map[string]Object{}}
}

func (a *Adapter) Name() string { return "fake" }

func (a *Adapter) Upload(_ context.Context, in storage.UploadInput) (*storage.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uploads++
	if a.Err != nil {
		return nil, a.Err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, in.Body); err != nil {
		return nil, err
	}
	a.objects[in.Path] = Object{Input: in, Data: buf.Bytes()}
	return &storage.Result{
		URL:       a.BaseURL + "/" + in.Path,
		StorageID: in.Path,
		Size:      int64(buf.Len()),
	}, nil
}

func (a *Adapter) Delete(_ context.Context, storageID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	delete(a.objects, storageID)
	return nil
}

func (a *Adapter) Check(context.Context) error { return a.Err }

// Uploads returns how many times Upload was called, failures included.
func (a *Adapter) Uploads() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.uploads
}

// Object returns the object stored at path.
func (a *Adapter) Object(path string) (Object, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	o, ok := a.objects[path]
	return o, ok
}

var _ storage.Adapter = (*Adapter)(nil)
