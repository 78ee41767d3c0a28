package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

// MaxImageBytes caps an upload read into memory.
const MaxImageBytes = 10 << 20

var (
	// ErrInvalidPath rejects empty or traversing references.
	ErrInvalidPath = errors.New("media: invalid path")
	// ErrNotImage reports an upload that does not sniff as an image.
	ErrNotImage = errors.New("media: not an image")
	// ErrTooLarge reports an upload above MaxImageBytes.
	ErrTooLarge = errors.New("media: image too large")
)

// Image is a fetched upload with its sniffed media type.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Service downloads backend uploads with the operator's token.
type Service struct {
	client *apiclient.Client
}

// NewService constructs the media service.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// CleanPath turns a reference into an upload path relative to /uploads/.
// Escaped segments are decoded and re-escaped.
func CleanPath(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	ref = strings.TrimPrefix(ref, "/")
	ref = strings.TrimPrefix(ref, "uploads/")
	if ref == "" {
		return "", ErrInvalidPath
	}
	segments := strings.Split(ref, "/")
	for i, seg := range segments {
		decoded, err := url.PathUnescape(seg)
		if err != nil || decoded == "" || decoded == "." || decoded == ".." || strings.ContainsAny(decoded, "/\\") {
			return "", ErrInvalidPath
		}
		segments[i] = url.PathEscape(decoded)
	}
	return strings.Join(segments, "/"), nil
}

// Fetch downloads the upload at ref. Only images are returned.
func (s *Service) Fetch(ctx context.Context, ref string) (Image, error) {
	clean, err := CleanPath(ref)
	if err != nil {
		return Image{}, err
	}
	blob, err := s.client.GetBlob(ctx, "/uploads/"+clean)
	if err != nil {
		return Image{}, err
	}
	defer blob.Body.Close()

	data, err := io.ReadAll(io.LimitReader(blob.Body, MaxImageBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("media: read %s: %w", clean, err)
	}
	if len(data) > MaxImageBytes {
		return Image{}, ErrTooLarge
	}
	kind := mimetype.Detect(data)
	if !strings.HasPrefix(kind.String(), "image/") {
		return Image{}, ErrNotImage
	}
	return Image{Data: data, ContentType: kind.String(), Extension: kind.Extension()}, nil
}
