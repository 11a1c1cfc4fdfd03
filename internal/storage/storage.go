package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize caps uploaded images at 5MB.
const MaxImageSize = 5 * 1024 * 1024

// Storage persists uploaded images and returns a public URL for them.
type Storage interface {
	// Save writes the uploaded file under the given folder and returns its
	// public URL.
	Save(folder string, file *multipart.FileHeader) (string, error)
	// Remove deletes a previously stored file by its public URL.
	// Best-effort: unknown URLs are ignored.
	Remove(url string) error
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalStorage stores uploads on the local filesystem and serves them from
// a static route.
type LocalStorage struct {
	dir     string
	baseURL string
}

// NewLocalStorage creates the upload directory if needed.
func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStorage) Save(folder string, file *multipart.FileHeader) (string, error) {
	if file.Size > MaxImageSize {
		return "", fmt.Errorf("file exceeds %d bytes", MaxImageSize)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	if err := os.MkdirAll(filepath.Join(s.dir, folder), 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", folder, err)
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(s.dir, folder, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := out.ReadFrom(src); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write %s: %w", dst, err)
	}

	return s.baseURL + "/" + folder + "/" + name, nil
}

func (s *LocalStorage) Remove(url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return nil
	}
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
