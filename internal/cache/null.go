package cache

import (
	"context"
	"time"
)

// Null never stores anything; every Get is a miss.
type Null struct{}

func (Null) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

func (Null) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error { return nil }

func (Null) Delete(ctx context.Context, key string) error { return nil }

func (Null) Close() error { return nil }

var _ Cache = Null{}
