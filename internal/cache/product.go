package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/marketplace/internal/models"
)

const DefaultTTL = 60 * time.Second

// ProductCache holds product detail documents keyed by id. A miss is
// (nil, nil).
type ProductCache interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	Set(ctx context.Context, p *models.Product) error
	Invalidate(ctx context.Context, id string) error
}

type Redis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{Client: client, TTL: ttl}
}

func key(id string) string { return "product:" + id }

func (r *Redis) Get(ctx context.Context, id string) (*models.Product, error) {
	raw, err := r.Client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", id, err)
	}
	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", id, err)
	}
	return &p, nil
}

func (r *Redis) Set(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := r.Client.Set(ctx, key(p.ID.String()), data, r.TTL).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", p.ID, err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context, id string) error {
	if err := r.Client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("cache del %s: %w", id, err)
	}
	return nil
}

type Noop struct{}

func (Noop) Get(context.Context, string) (*models.Product, error) { return nil, nil }
func (Noop) Set(context.Context, *models.Product) error { return nil }
func (Noop) Invalidate(context.Context, string) error { return nil }
