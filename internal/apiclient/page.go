package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Default pagination used when the caller supplies none.
const (
	DefaultPage = 0
	DefaultSize = 10
)

// Page is the canonical list envelope. Number is the zero-based page index.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Number > 0 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Number+1 < p.TotalPages }

// Empty reports whether the page carries no rows.
func (p Page[T]) Empty() bool { return len(p.Content) == 0 }

type pageInfo struct {
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

type pageWire[T any] struct {
	Content       []T       `json:"content"`
	TotalElements *int64    `json:"totalElements"`
	TotalPages    *int      `json:"totalPages"`
	Size          *int      `json:"size"`
	Number        *int      `json:"number"`
	Page          *pageInfo `json:"page"`
}

// DecodePage reads either backend envelope ({content, totalElements, ...} or
// {content, page: {totalElements, ...}}) or a bare JSON array.
func DecodePage[T any](raw []byte) (Page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Page[T]{Content: []T{}}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, fmt.Errorf("apiclient: decode list: %w", err)
		}
		return singlePage(items), nil
	}

	var wire pageWire[T]
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return Page[T]{}, fmt.Errorf("apiclient: decode page: %w", err)
	}
	page := Page[T]{Content: wire.Content}
	if page.Content == nil {
		page.Content = []T{}
	}
	switch {
	case wire.Page != nil:
		page.TotalElements = wire.Page.TotalElements
		page.TotalPages = wire.Page.TotalPages
		page.Size = wire.Page.Size
		page.Number = wire.Page.Number
	case wire.TotalElements != nil || wire.TotalPages != nil:
		if wire.TotalElements != nil {
			page.TotalElements = *wire.TotalElements
		}
		if wire.TotalPages != nil {
			page.TotalPages = *wire.TotalPages
		}
		if wire.Size != nil {
			page.Size = *wire.Size
		}
		if wire.Number != nil {
			page.Number = *wire.Number
		}
	default:
		return singlePage(page.Content), nil
	}
	return page, nil
}

func singlePage[T any](items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	page := Page[T]{Content: items, TotalElements: int64(len(items)), Size: len(items)}
	if len(items) > 0 {
		page.TotalPages = 1
	}
	return page
}

// GetPage fetches path and normalises the envelope.
func GetPage[T any](ctx context.Context, c *Client, path string, query url.Values) (Page[T], error) {
	raw, err := c.GetRaw(ctx, path, query)
	if err != nil {
		return Page[T]{}, err
	}
	return DecodePage[T](raw)
}

// PageQuery returns page and size parameters, falling back to the defaults.
func PageQuery(page, size int) url.Values {
	if page < 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

// SetIfNotEmpty adds key to q only when value is non-empty.
func SetIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
