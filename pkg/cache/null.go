package cache

import (
	"context"
	"time"
)

// NullCache forgets everything it is given. Every Get is a miss, so the
// pipeline renders and converts from scratch. The CLI uses it for --no-cache,
// for backend = "none" and when no cache directory can be found.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }
