package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage stores assets on the local filesystem under a single base
// directory. Paths are resolved inside baseDir only; traversal attempts are
// rejected before touching the disk.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates the base directory if needed and returns a
// filesystem-backed Storage. baseURL prefixes public URLs, e.g. "/files/".
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(absBaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &LocalStorage{baseDir: absBaseDir, baseURL: baseURL}, nil
}

func (s *LocalStorage) Save(ctx context.Context, fh *multipart.FileHeader, path string) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fh == nil {
		return nil, ErrNilFileHeader
	}

	rel, err := cleanRelPath(path)
	if err != nil {
		return nil, err
	}
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(absPath) // drop the partial file
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	mimeType, _ := DetectMIMEType(fh)

	return &Asset{
		Path:     rel,
		URL:      s.URL(rel),
		MIMEType: mimeType,
		Size:     written,
	}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, err := cleanRelPath(path)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel))); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}

	rel, err := cleanRelPath(path)
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

func (s *LocalStorage) URL(path string) string {
	rel, err := cleanRelPath(path)
	if err != nil {
		return ""
	}
	return s.baseURL + rel
}
