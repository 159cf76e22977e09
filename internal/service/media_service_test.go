package service_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/examduty/dutybook-backend/internal/testfixtures"
)

func newMediaService(t *testing.T) (*service.MediaService, string) {
	t.Helper()
	cfg := testfixtures.TestConfig()
	cfg.UploadDir = t.TempDir()
	cfg.MaxUploadBytes = 16
	return service.NewMediaService(cfg), cfg.UploadDir
}

func TestSaveUpload(t *testing.T) {
	media, dir := newMediaService(t)

	url, err := media.SaveUpload(service.Upload{File: strings.NewReader("jpeg"), ContentType: "image/jpg", Size: 4})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".jpg") {
		t.Errorf("unexpected url %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	if err != nil || string(data) != "jpeg" {
		t.Errorf("file not written: %v %q", err, data)
	}
}

func TestSaveUpload_Rejections(t *testing.T) {
	media, dir := newMediaService(t)

	_, err := media.SaveUpload(service.Upload{File: strings.NewReader("gif"), ContentType: "image/gif", Size: 3})
	if !errors.Is(err, service.ErrUnsupportedFileType) {
		t.Errorf("expected ErrUnsupportedFileType, got %v", err)
	}

	_, err = media.SaveUpload(service.Upload{File: strings.NewReader("x"), ContentType: "image/png", Size: 1 << 10})
	if !errors.Is(err, service.ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge from declared size, got %v", err)
	}

	body := strings.Repeat("x", 64)
	_, err = media.SaveUpload(service.Upload{File: strings.NewReader(body), ContentType: "image/png", Size: 1})
	if !errors.Is(err, service.ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge from actual size, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("rejected uploads must leave no files, found %d", len(entries))
	}
}

func TestRemove(t *testing.T) {
	media, dir := newMediaService(t)

	url, err := media.SaveUpload(service.Upload{File: strings.NewReader("png"), ContentType: "image/png", Size: 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := media.Remove(url); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.Base(url))); !os.IsNotExist(err) {
		t.Error("file should be gone")
	}

	if err := media.Remove(url); err != nil {
		t.Errorf("removing a missing file is not an error, got %v", err)
	}
}

func TestRemove_Failure(t *testing.T) {
	media, dir := newMediaService(t)

	// A non-empty directory cannot be removed with os.Remove.
	blocker := filepath.Join(dir, "blocked.png")
	if err := os.MkdirAll(filepath.Join(blocker, "child"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := media.Remove("/uploads/blocked.png"); !errors.Is(err, service.ErrImageCleanup) {
		t.Fatalf("expected ErrImageCleanup, got %v", err)
	}
}
