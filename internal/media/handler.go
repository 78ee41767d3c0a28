package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"github.com/kickzone/kickzone-admin/internal/platform/httpx"
)

// MaxThumbnailWidth bounds the ?w= parameter.
const MaxThumbnailWidth = 1024

// Fetcher loads uploads for the proxy.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (Image, error)
}

// Handler proxies backend uploads to the browser. The browser never holds
// the backend token; it loads images from the console origin instead.
type Handler struct {
	logger  *slog.Logger
	fetcher Fetcher
}

// NewHandler builds the media proxy.
func NewHandler(logger *slog.Logger, fetcher Fetcher) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, fetcher: fetcher}
}

// MountRoutes registers the proxy under Prefix.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get(Prefix+"*", h.serve)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	width := 0
	if raw := r.URL.Query().Get("w"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxThumbnailWidth {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "w must be between 1 and 1024")
			return
		}
		width = n
	}

	img, err := h.fetcher.Fetch(r.Context(), chi.URLParam(r, "*"))
	switch {
	case errors.Is(err, ErrInvalidPath):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
		return
	case errors.Is(err, ErrNotImage):
		httpx.Problem(w, http.StatusUnsupportedMediaType, "Unsupported Media Type", "the upload is not an image")
		return
	case errors.Is(err, ErrTooLarge):
		httpx.Problem(w, http.StatusBadGateway, "Bad Gateway", "the upload is too large")
		return
	case err != nil:
		h.logger.Warn("media fetch failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	data, contentType := img.Data, img.ContentType
	if width > 0 {
		thumb, thumbType, err := Thumbnail(img, width)
		if err != nil {
			h.logger.Warn("thumbnail failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		} else {
			data, contentType = thumb, thumbType
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Thumbnail scales img down to width, keeping the aspect ratio. Images that
// are already narrower are re-encoded at their size. PNG and GIF sources
// become PNG to keep transparency; everything else becomes JPEG.
func Thumbnail(img Image, width int) ([]byte, string, error) {
	src, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", err
	}
	var out image.Image = src
	if src.Bounds().Dx() > width {
		out = imaging.Resize(src, width, 0, imaging.Lanczos)
	}

	format, contentType := imaging.JPEG, "image/jpeg"
	if img.ContentType == "image/png" || img.ContentType == "image/gif" {
		format, contentType = imaging.PNG, "image/png"
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, format, imaging.JPEGQuality(85)); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), contentType, nil
}
