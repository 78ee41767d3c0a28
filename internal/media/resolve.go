// Package media serves backend uploads to the console through the
// authenticated API client.
package media

import (
	"net/url"
	"strconv"
	"strings"
)

// Prefix is the console path that proxies backend uploads.
const Prefix = "/media/"

// ResolveURL maps an image reference to something a browser can load.
// Absolute http(s) and blob: references are returned unchanged; relative
// upload paths are routed through the authenticated proxy.
func ResolveURL(path string) string {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http"), strings.HasPrefix(path, "blob:"):
		return path
	}
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimPrefix(path, "uploads/")
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return Prefix + strings.Join(segments, "/")
}

// ThumbnailURL is ResolveURL with a width hint for proxied images.
func ThumbnailURL(path string, width int) string {
	resolved := ResolveURL(path)
	if !strings.HasPrefix(resolved, Prefix) || width <= 0 {
		return resolved
	}
	return resolved + "?w=" + strconv.Itoa(width)
}

// IsProxied reports whether the reference needs the authenticated fetch.
func IsProxied(path string) bool {
	return strings.HasPrefix(ResolveURL(path), Prefix)
}
