package view

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kickzone/kickzone-admin/internal/media"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var moneyPrinter = message.NewPrinter(language.English)

// ParseTimestamp reads the timestamp shapes the backend emits.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(raw string) string {
			t, ok := ParseTimestamp(raw)
			if !ok {
				return raw
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"humanTime": func(raw string) string {
			t, ok := ParseTimestamp(raw)
			if !ok {
				return raw
			}
			return humanize.Time(t)
		},
		"comma": func(v int64) string {
			return humanize.Comma(v)
		},
		"money": func(v float64) string {
			return moneyPrinter.Sprintf("$%.2f", v)
		},
		"imageURL":  media.ResolveURL,
		"thumbURL":  media.ThumbnailURL,
		"permLabel": func(p any) string { return rbac.Permission(fmt.Sprint(p)).Label() },
		"hasPerm": func(set []rbac.Permission, p rbac.Permission) bool {
			for _, candidate := range set {
				if candidate == p {
					return true
				}
			}
			return false
		},
		"join": strings.Join,
		"pageLink": func(q url.Values, page int) string {
			return shared.PageLink(q, page)
		},
		"add": func(a, b int) int { return a + b },
		"initials": func(first, last string) string {
			out := ""
			if first != "" {
				out += strings.ToUpper(first[:1])
			}
			if last != "" {
				out += strings.ToUpper(last[:1])
			}
			return out
		},
		"navActive": func(current, path string) bool {
			if current == path {
				return true
			}
			return path != "/dashboard" && strings.HasPrefix(current, path+"/")
		},
		"percent": func(part, total int64) int64 {
			if total <= 0 || part <= 0 {
				return 0
			}
			if part >= total {
				return 100
			}
			return part * 100 / total
		},
		"lower": strings.ToLower,
	}
}
