package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"studykart/pkg/record"
	"studykart/pkg/storage"
)

const fakePublicBase = "https://cdn.test/studykart"

// fakeObjectStore records calls so tests can assert cleanup behavior
// without a MinIO instance.
type fakeObjectStore struct {
	mu         sync.Mutex
	putKeys    []string
	deleted    []string
	failDelete map[string]bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{failDelete: make(map[string]bool)}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putKeys = append(f.putKeys, key)
	return fakePublicBase + "/" + key, nil
}

func (f *fakeObjectStore) PresignPut(_ context.Context, key string, _ time.Duration, _ string) (storage.PresignedUpload, error) {
	return storage.PresignedUpload{
		UploadURL: "https://minio.test/presigned/" + key,
		PublicURL: fakePublicBase + "/" + key,
		Key:       key,
	}, nil
}

func (f *fakeObjectStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://minio.test/download/" + key, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete[key] {
		return fmt.Errorf("object store unavailable for %s", key)
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) KeyFromURL(publicURL string) string {
	prefix := fakePublicBase + "/"
	if strings.HasPrefix(publicURL, prefix) {
		return strings.TrimPrefix(publicURL, prefix)
	}
	return ""
}

func (f *fakeObjectStore) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deleted))
	copy(out, f.deleted)
	return out
}

func newTestApp(t *testing.T) (*App, *record.MemoryStore, *fakeObjectStore) {
	t.Helper()
	records := record.NewMemoryStore()
	objects := newFakeObjectStore()
	a, err := New(Config{Records: records, Objects: objects})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, records, objects
}

func isValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
