package app

import (
	"context"
	"strings"
	"testing"
)

func TestPresignUpload(t *testing.T) {
	a, _, _ := newTestApp(t)

	upload, err := a.PresignUpload(context.Background(), "pdfs", "chapter1.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("presign upload: %v", err)
	}
	if !strings.HasPrefix(upload.Key, "pdfs/") || !strings.HasSuffix(upload.Key, ".pdf") {
		t.Fatalf("key should keep folder and extension: %q", upload.Key)
	}
	if upload.UploadURL == "" || upload.PublicURL == "" {
		t.Fatalf("incomplete presign result: %+v", upload)
	}

	other, err := a.PresignUpload(context.Background(), "pdfs", "chapter1.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("presign upload: %v", err)
	}
	if other.Key == upload.Key {
		t.Fatalf("keys for the same file name must be unique")
	}
}

func TestPresignUploadRejectsBadInput(t *testing.T) {
	a, _, _ := newTestApp(t)
	if _, err := a.PresignUpload(context.Background(), "secrets", "x.pdf", ""); !isValidation(err) {
		t.Fatalf("unknown folder: expected validation error, got %v", err)
	}
	if _, err := a.PresignUpload(context.Background(), "pdfs", "  ", ""); !isValidation(err) {
		t.Fatalf("blank file name: expected validation error, got %v", err)
	}
}

func TestUploadFile(t *testing.T) {
	a, _, objects := newTestApp(t)

	out, err := a.UploadFile(context.Background(), "thumbnails", "cover.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0xFF})
	if err != nil {
		t.Fatalf("upload file: %v", err)
	}
	key := out.String("fileKey")
	if !strings.HasPrefix(key, "thumbnails/") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("unexpected key %q", key)
	}
	if out.String("fileUrl") != fakePublicBase+"/"+key {
		t.Fatalf("public url wrong: %q", out.String("fileUrl"))
	}
	if len(objects.putKeys) != 1 || objects.putKeys[0] != key {
		t.Fatalf("object not stored: %v", objects.putKeys)
	}
	if _, ok := out["pages"]; ok {
		t.Fatalf("non-PDF upload should not report pages: %+v", out)
	}

	if _, err := a.UploadFile(context.Background(), "thumbnails", "cover.jpg", "image/jpeg", nil); !isValidation(err) {
		t.Fatalf("empty file: expected validation error, got %v", err)
	}
}

func TestDeleteUpload(t *testing.T) {
	a, _, objects := newTestApp(t)

	if err := a.DeleteUpload(context.Background(), "pdfs/old.pdf"); err != nil {
		t.Fatalf("delete by key: %v", err)
	}
	if err := a.DeleteUpload(context.Background(), fakePublicBase+"/thumbnails/old.jpg"); err != nil {
		t.Fatalf("delete by url: %v", err)
	}
	deleted := objects.deletedKeys()
	if len(deleted) != 2 || deleted[0] != "pdfs/old.pdf" || deleted[1] != "thumbnails/old.jpg" {
		t.Fatalf("deletes wrong: %v", deleted)
	}

	if err := a.DeleteUpload(context.Background(), "https://other.example.com/file.pdf"); !isValidation(err) {
		t.Fatalf("foreign url: expected validation error, got %v", err)
	}
}

func TestPresignDownload(t *testing.T) {
	a, _, _ := newTestApp(t)
	url, err := a.PresignDownload(context.Background(), "pdfs/chapter1.pdf")
	if err != nil {
		t.Fatalf("presign download: %v", err)
	}
	if !strings.Contains(url, "pdfs/chapter1.pdf") {
		t.Fatalf("unexpected download url %q", url)
	}
	if _, err := a.PresignDownload(context.Background(), " "); !isValidation(err) {
		t.Fatalf("blank key: expected validation error, got %v", err)
	}
}
