package analytics

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

const dashboardPath = "/analytics/dashboard"

// Service reads analytics from the backend through the short lived cache.
type Service struct {
	client *apiclient.Client
	cache  *Cache
	logger *slog.Logger
}

// NewService constructs the analytics service.
func NewService(client *apiclient.Client, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, cache: cache, logger: logger}
}

// Dashboard returns the dashboard summary. Cached entries are keyed per
// backend user so operators never see each other's scoped figures.
func (s *Service) Dashboard(ctx context.Context, userID int64) (DashboardAnalytics, error) {
	var out DashboardAnalytics
	load := func(ctx context.Context) (any, error) {
		var fresh DashboardAnalytics
		if err := s.client.GetJSON(ctx, dashboardPath, nil, &fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}

	key, err := s.cache.BuildKey(ctx, "kickzone", "analytics", "dashboard", strconv.FormatInt(userID, 10))
	if err != nil {
		s.logger.Warn("analytics cache unavailable", slog.Any("error", err))
		value, err := load(ctx)
		if err != nil {
			return out, err
		}
		return value.(DashboardAnalytics), nil
	}
	if err := s.cache.FetchJSON(ctx, key, &out, load); err != nil {
		return DashboardAnalytics{}, err
	}
	return out, nil
}

// Invalidate drops every cached dashboard.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// InvalidationHook drops every cached dashboard after a successful backend
// write, so figures reflect the change on the next read.
func InvalidationHook(cache *Cache, logger *slog.Logger) apiclient.MutationHook {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, method, path string) {
		if err := cache.Bump(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("analytics cache invalidation failed", slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		}
	}
}
