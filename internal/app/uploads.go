package app

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"studykart/internal/util"
	"studykart/pkg/record"
	"studykart/pkg/storage"
)

var allowedUploadFolders = map[string]bool{
	storage.FolderPDFs:       true,
	storage.FolderVideos:     true,
	storage.FolderThumbnails: true,
}

// PresignUpload returns a pre-signed PUT URL so the browser uploads the
// file straight to object storage.
func (a *App) PresignUpload(ctx context.Context, folder, fileName, contentType string) (storage.PresignedUpload, error) {
	if !allowedUploadFolders[folder] {
		return storage.PresignedUpload{}, invalidInput("folder must be one of pdfs, videos, thumbnails")
	}
	if strings.TrimSpace(fileName) == "" {
		return storage.PresignedUpload{}, &ValidationError{Missing: []string{"fileName"}}
	}
	key := storage.BuildKey(folder, fileName, util.NewID())
	return a.objects.PresignPut(ctx, key, a.presignExpiry, contentType)
}

// UploadFile stores a file server-side and returns its key and public
// URL as plain content fields.
func (a *App) UploadFile(ctx context.Context, folder, fileName, contentType string, data []byte) (record.Record, error) {
	if !allowedUploadFolders[folder] {
		return nil, invalidInput("folder must be one of pdfs, videos, thumbnails")
	}
	if strings.TrimSpace(fileName) == "" {
		return nil, &ValidationError{Missing: []string{"fileName"}}
	}
	if len(data) == 0 {
		return nil, invalidInput("empty file")
	}
	key := storage.BuildKey(folder, fileName, util.NewID())
	publicURL, err := a.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, err
	}
	out := record.Record{
		"fileUrl": publicURL,
		"fileKey": key,
	}
	if folder == storage.FolderPDFs {
		if pages := countPDFPages(data); pages > 0 {
			out["pages"] = pages
		}
	}
	return out, nil
}

// PresignDownload returns a short-lived GET URL for a stored object.
func (a *App) PresignDownload(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", &ValidationError{Missing: []string{"key"}}
	}
	return a.objects.PresignGet(ctx, key, a.presignExpiry)
}

// DeleteUpload removes one object by key, or by public URL when the key
// is not given directly.
func (a *App) DeleteUpload(ctx context.Context, keyOrURL string) error {
	key := keyOrURL
	if strings.Contains(key, "://") {
		key = a.objects.KeyFromURL(keyOrURL)
	}
	if strings.TrimSpace(key) == "" {
		return &ValidationError{Missing: []string{"key"}}
	}
	return a.objects.Delete(ctx, key)
}

// countPDFPages parses the PDF header to record the page count on
// uploaded study material. Unparseable files return zero and the upload
// proceeds without a page count.
func countPDFPages(data []byte) int {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return reader.NumPage()
}
