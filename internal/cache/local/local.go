package local

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/chenoli/gostack-gobarber/internal/cache"
)

// Provider implements cache.Provider in process memory. It backs
// single-node deployments and tests; entries never expire and are
// removed only by explicit invalidation.
type Provider struct {
	store *gocache.Cache
}

func NewProvider() *Provider {
	return &Provider{store: gocache.New(gocache.NoExpiration, 0)}
}

func (p *Provider) Recover(_ context.Context, key cache.Key, value interface{}) (bool, error) {
	entry, found := p.store.Get(key.String())
	if !found {
		return false, nil
	}

	payload, ok := entry.([]byte)
	if !ok {
		return false, fmt.Errorf("unexpected cache entry type %T", entry)
	}
	if err := json.Unmarshal(payload, value); err != nil {
		return false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return true, nil
}

func (p *Provider) Save(_ context.Context, key cache.Key, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	p.store.Set(key.String(), payload, gocache.NoExpiration)
	return nil
}

func (p *Provider) Invalidate(_ context.Context, key cache.Key) error {
	p.store.Delete(key.String())
	return nil
}

func (p *Provider) InvalidatePrefix(_ context.Context, namespace string) error {
	prefix := namespace + ":"
	for key := range p.store.Items() {
		if strings.HasPrefix(key, prefix) {
			p.store.Delete(key)
		}
	}
	return nil
}
