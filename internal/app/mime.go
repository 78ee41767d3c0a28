package app

import (
	"log/slog"
	"mime"
	"sync"
)

// staticTypes pins the content types of the files under web/static so the
// console does not depend on the host's mime.types table.
var staticTypes = map[string]string{
	".css":   "text/css; charset=utf-8",
	".js":    "text/javascript; charset=utf-8",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".webp":  "image/webp",
	".woff2": "font/woff2",
}

var registerStatic sync.Once

func registerStaticTypes(logger *slog.Logger) {
	registerStatic.Do(func() {
		for ext, typ := range staticTypes {
			if err := mime.AddExtensionType(ext, typ); err != nil {
				logger.Warn("register static content type", slog.String("ext", ext), slog.Any("error", err))
			}
		}
	})
}
