package shared

import (
	"net/url"
	"strconv"
	"strings"
)

// Pager describes a position in a zero-based paginated listing.
type Pager struct {
	Page       int
	Size       int
	Total      int64
	TotalPages int
}

// NewPager computes pagination metadata.
func NewPager(page, size int, total int64, totalPages int) Pager {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	return Pager{Page: page, Size: size, Total: total, TotalPages: totalPages}
}

// Display is the one-based page number.
func (p Pager) Display() int { return p.Page + 1 }

// HasPrev reports whether a previous page exists.
func (p Pager) HasPrev() bool { return p.Page > 0 }

// HasNext reports whether a following page exists.
func (p Pager) HasNext() bool { return p.Page+1 < p.TotalPages }

// PageParams reads page and size from the query string.
func PageParams(q url.Values) (page, size int) {
	page, _ = strconv.Atoi(strings.TrimSpace(q.Get("page")))
	size, _ = strconv.Atoi(strings.TrimSpace(q.Get("size")))
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return page, size
}

// PageLink rewrites the page parameter of query and returns "?…".
func PageLink(q url.Values, page int) string {
	next := url.Values{}
	for key, values := range q {
		next[key] = append([]string(nil), values...)
	}
	next.Set("page", strconv.Itoa(page))
	return "?" + next.Encode()
}
