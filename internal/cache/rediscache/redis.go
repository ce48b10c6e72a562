package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chenoli/gostack-gobarber/internal/cache"
)

// Provider implements cache.Provider on redis. Entries carry no TTL;
// staleness is prevented by explicit invalidation on write.
type Provider struct {
	client *redis.Client
}

type Config struct {
	URL          string
	PoolSize     int
	MinIdleConns int
}

func NewProvider(config Config) (*Provider, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = config.PoolSize
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Provider{client: client}, nil
}

func (p *Provider) Recover(ctx context.Context, key cache.Key, value interface{}) (bool, error) {
	payload, err := p.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to recover cache entry: %w", err)
	}

	if err := json.Unmarshal(payload, value); err != nil {
		return false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return true, nil
}

func (p *Provider) Save(ctx context.Context, key cache.Key, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := p.client.Set(ctx, key.String(), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

func (p *Provider) Invalidate(ctx context.Context, key cache.Key) error {
	if err := p.client.Del(ctx, key.String()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache entry: %w", err)
	}
	return nil
}

func (p *Provider) InvalidatePrefix(ctx context.Context, namespace string) error {
	iter := p.client.Scan(ctx, 0, namespace+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := p.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate cache prefix: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache prefix: %w", err)
	}
	return nil
}

func (p *Provider) Close() error {
	return p.client.Close()
}
