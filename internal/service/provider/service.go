package provider

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/cache"
	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
	"github.com/chenoli/gostack-gobarber/pkg/metrics"
)

// Service lists bookable providers. The listing shares the cache
// discipline of the appointment services: read-through per requesting
// user, invalidated by prefix when the user base changes.
type Service struct {
	repo    repository.UserRepository
	cache   cache.Provider
	metrics *metrics.Metrics
}

func NewService(repo repository.UserRepository, cacheProvider cache.Provider, m *metrics.Metrics) *Service {
	return &Service{repo: repo, cache: cacheProvider, metrics: m}
}

// ListProviders returns all users except the requesting one, in store order
func (s *Service) ListProviders(ctx context.Context, exceptUserID uuid.UUID) ([]*model.User, error) {
	key := cache.ProvidersListKey(exceptUserID)

	providers := []*model.User{}
	found, err := s.cache.Recover(ctx, key, &providers)
	if err == nil && found {
		if s.metrics != nil {
			s.metrics.CacheHits.WithLabelValues(key.Namespace()).Inc()
		}
		return providers, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMisses.WithLabelValues(key.Namespace()).Inc()
	}

	providers, err = s.repo.FindProviders(ctx, exceptUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	if err := s.cache.Save(ctx, key, providers); err != nil {
		return nil, fmt.Errorf("failed to cache providers: %w", err)
	}

	return providers, nil
}
