package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Upload folders accepted for content files.
const (
	FolderPDFs       = "pdfs"
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
)

// PresignedUpload is the result of PresignPut: the client PUTs the file
// to UploadURL, then hands PublicURL/Key back as plain content fields.
type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Key       string `json:"key"`
}

// ObjectStore provides access to object storage.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	PresignPut(ctx context.Context, key string, expiry time.Duration, contentType string) (PresignedUpload, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(publicURL string) string
}

// MinioStore implements ObjectStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
// publicBaseURL is the externally reachable base for stored objects
// (e.g. "https://cdn.example.com" or the bucket endpoint itself).
func NewMinioStore(endpoint, accessKey, secretKey, bucket, publicBaseURL string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	if publicBaseURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
	}
	return &MinioStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Put uploads an object and returns its public URL.
func (m *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return m.publicURL + "/" + key, nil
}

// PresignPut generates a pre-signed PUT URL for direct browser upload.
func (m *MinioStore) PresignPut(ctx context.Context, key string, expiry time.Duration, contentType string) (PresignedUpload, error) {
	u, err := m.client.PresignHeader(ctx, "PUT", m.bucket, key, expiry, url.Values{}, contentTypeHeader(contentType))
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("presign put: %w", err)
	}
	return PresignedUpload{
		UploadURL: u.String(),
		PublicURL: m.publicURL + "/" + key,
		Key:       key,
	}, nil
}

func contentTypeHeader(contentType string) http.Header {
	if contentType == "" {
		return nil
	}
	return http.Header{"Content-Type": {contentType}}
}

// PresignGet generates a pre-signed GET URL for private file access.
func (m *MinioStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return u.String(), nil
}

// Delete removes an object.
func (m *MinioStore) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// KeyFromURL extracts the object key from a public URL previously
// produced by this store, or "" when the URL is foreign.
func (m *MinioStore) KeyFromURL(publicURL string) string {
	prefix := m.publicURL + "/"
	if strings.HasPrefix(publicURL, prefix) {
		return strings.TrimPrefix(publicURL, prefix)
	}
	return ""
}

// BuildKey composes an object key under a folder with a unique name
// that keeps the original extension.
func BuildKey(folder, fileName, unique string) string {
	ext := path.Ext(fileName)
	return path.Join(folder, unique+ext)
}
