package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
)

// Asset describes a stored file.
type Asset struct {
	Path     string // storage-relative path, the reference persisted by callers
	URL      string // public URL derived from the backend's base URL
	MIMEType string
	Size     int64
}

// Storage is the asset store consumed by the account module.
type Storage interface {
	// Save stores the uploaded file under path and returns its metadata.
	Save(ctx context.Context, fh *multipart.FileHeader, path string) (*Asset, error)
	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
	// Exists reports whether a file is present at path.
	Exists(ctx context.Context, path string) bool
	// URL returns the public URL for a stored path.
	URL(path string) string
}

var imageMIMETypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"image/bmp":     true,
	"image/avif":    true,
}

// IsImage reports whether the upload looks like an image, checking content
// first and falling back to the extension when sniffing is inconclusive.
// Extension alone is not trusted for positive detection of renamed files.
func IsImage(fh *multipart.FileHeader) bool {
	if fh == nil {
		return false
	}

	if mimeType, err := DetectMIMEType(fh); err == nil && mimeType != "" &&
		mimeType != "application/octet-stream" {
		return imageMIMETypes[mimeType]
	}

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp", ".avif":
		return true
	default:
		return false
	}
}

// DetectMIMEType sniffs the content type from the first 512 bytes.
func DetectMIMEType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	mimeType := http.DetectContentType(buf[:n])
	// Strip "; charset=..." suffixes for stable comparisons.
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename reduces an untrusted filename to a safe basename.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

// cleanRelPath normalizes a storage path and rejects traversal attempts.
func cleanRelPath(path string) (string, error) {
	cleaned := filepath.ToSlash(filepath.Clean("/" + path))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
