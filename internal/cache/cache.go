package cache

import (
	"context"
	"time"
)

// BytesCache — байтовый кэш с TTL. Кэш всегда best-effort: его отказ
// не должен ронять запрос.
type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
