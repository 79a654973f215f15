package uploadstore

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotFound    = errors.New("upload not found")
	ErrNotImage    = errors.New("only images are supported")
	ErrUnsupported = errors.New("unsupported image type")
)

// UploadStore abstracts where uploaded images live.
type UploadStore interface {
	// Save writes r under a fresh name with the given extension and returns the name.
	Save(ctx context.Context, ext string, r io.Reader) (string, error)
	// Open returns the stored file and its mime type.
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, name string) error
}

var allowedExt = map[string]bool{
	"jpg": true, "png": true, "gif": true, "webp": true, "bmp": true, "ico": true,
}

var subtypePattern = regexp.MustCompile(`^[a-z]+$`)

// Extension derives the stored file extension from a declared content type.
// Subtypes outside the allowed set fall back to jpg.
func Extension(contentType string) (string, error) {
	main := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	sub, ok := strings.CutPrefix(main, "image/")
	if !ok {
		return "", ErrNotImage
	}
	if !subtypePattern.MatchString(sub) {
		return "", ErrUnsupported
	}
	if sub == "jpeg" {
		sub = "jpg"
	}
	if !allowedExt[sub] {
		sub = "jpg"
	}
	return sub, nil
}

// Sniff detects the content type of a file from its leading bytes.
func Sniff(head []byte) string {
	return mimetype.Detect(head).String()
}

// MimeType maps a stored file name back to the content type it is served with.
func MimeType(name string) string {
	ext := ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ext = strings.ToLower(name[i+1:])
	}
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	case "ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
