package grounds

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

// Service translates ground operations into backend calls.
type Service struct {
	client *apiclient.Client
}

// NewService constructs the ground service.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Search lists grounds whose name matches. The backend answers with either a
// page envelope or a bare array.
func (s *Service) Search(ctx context.Context, name string) ([]Playground, error) {
	query := url.Values{}
	apiclient.SetIfNotEmpty(query, "name", strings.TrimSpace(name))
	raw, err := s.client.GetRaw(ctx, "/grounds", query)
	if err != nil {
		return nil, err
	}
	page, err := apiclient.DecodePage[Playground](raw)
	if err != nil {
		return nil, fmt.Errorf("grounds: search: %w", err)
	}
	return page.Content, nil
}

// Popular lists the grounds currently featured as popular.
func (s *Service) Popular(ctx context.Context) ([]Playground, error) {
	raw, err := s.client.GetRaw(ctx, "/grounds/popular", nil)
	if err != nil {
		return nil, err
	}
	page, err := apiclient.DecodePage[Playground](raw)
	if err != nil {
		return nil, fmt.Errorf("grounds: popular: %w", err)
	}
	return page.Content, nil
}

// AddPopular features a ground.
func (s *Service) AddPopular(ctx context.Context, id int64) error {
	return s.client.PostJSON(ctx, popularPath(id), nil, nil)
}

// RemovePopular stops featuring a ground.
func (s *Service) RemovePopular(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, popularPath(id))
}

func popularPath(id int64) string {
	return "/grounds/" + strconv.FormatInt(id, 10) + "/popular"
}

// MarkPopular annotates results with membership in popular.
func MarkPopular(results, popular []Playground) []SearchResult {
	featured := make(map[int64]struct{}, len(popular))
	for _, p := range popular {
		featured[p.ID] = struct{}{}
	}
	out := make([]SearchResult, 0, len(results))
	for _, p := range results {
		_, ok := featured[p.ID]
		out = append(out, SearchResult{Playground: p, Popular: ok})
	}
	return out
}
