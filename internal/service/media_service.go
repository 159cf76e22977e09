package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/examduty/dutybook-backend/internal/config"
	"github.com/google/uuid"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrImageCleanup        = errors.New("delete previous image")
)

// Allowed image MIME types.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// Upload is a profile image received from a client.
type Upload struct {
	File        io.Reader
	ContentType string
	Size        int64
}

// MediaService stores profile images on local disk.
type MediaService struct {
	cfg *config.Config
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{cfg: cfg}
}

// SaveUpload saves an uploaded file to local storage with a UUID filename.
// Returns the public URL path of the saved file.
func (s *MediaService) SaveUpload(u Upload) (string, error) {
	ext, ok := allowedMIMETypes[strings.ToLower(u.ContentType)]
	if !ok {
		return "", fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, u.ContentType, strings.Join(allowedTypes(), ", "))
	}

	if u.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, u.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	// Read one byte past the limit so a lying Size header is still caught.
	n, err := io.Copy(dst, io.LimitReader(u.File, s.cfg.MaxUploadBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > s.cfg.MaxUploadBytes {
		err = fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}
	if err != nil {
		_ = os.Remove(destPath)
		if errors.Is(err, ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.cfg.UploadURLPath + "/" + filename, nil
}

// Remove deletes the file behind a URL returned by SaveUpload. A file that is
// already gone is not an error.
func (s *MediaService) Remove(url string) error {
	name := filepath.Base(strings.TrimPrefix(url, s.cfg.UploadURLPath+"/"))
	if name == "." || name == "/" || name == "" {
		return nil
	}

	if err := os.Remove(filepath.Join(s.cfg.UploadDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrImageCleanup, err)
	}
	return nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
