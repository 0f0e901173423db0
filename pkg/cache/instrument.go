package cache

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/crashviz/pkg/observability"
)

// Instrument wraps c so that every Get and Set is reported to the
// registered observability cache hooks, labeled with KeyType.
func Instrument(c Cache) Cache {
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, hit, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	}
	return err
}

// ErrNotClearable is returned by Clear for backends without Clearer.
var ErrNotClearable = errors.New("cache backend cannot be cleared")

// Clear clears c if its backend supports it.
func Clear(ctx context.Context, c Cache) (int, error) {
	if ic, ok := c.(*instrumented); ok {
		c = ic.Cache
	}
	cl, ok := c.(Clearer)
	if !ok {
		return 0, ErrNotClearable
	}
	return cl.Clear(ctx)
}
