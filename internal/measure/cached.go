package measure

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"cvBuilder/internal/cache"
	"cvBuilder/internal/paginate"
)

// Cached memoises settled heights. Cache failures are logged and fall
// through to the wrapped surface.
type Cached struct {
	next   paginate.Measurer
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps next with a height memo stored in c.
func NewCached(next paginate.Measurer, c cache.Cache, ttl time.Duration, logger *slog.Logger) *Cached {
	if c == nil {
		c = cache.Null{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{next: next, cache: c, ttl: ttl, logger: logger}
}

// Ready forwards to the wrapped surface when it reports readiness.
func (c *Cached) Ready() bool {
	if c.next == nil {
		return false
	}
	if r, ok := c.next.(interface{ Ready() bool }); ok {
		return r.Ready()
	}
	return true
}

func (c *Cached) Measure(ctx context.Context, f paginate.Fragment) (float64, error) {
	if c.next == nil {
		return 0, paginate.ErrSurfaceNotReady
	}
	key := cache.Key("measure", f.Head, strconv.FormatFloat(f.Width, 'f', 2, 64), f.Markup)

	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("measure: cache get failed", slog.Any("error", err))
	} else if ok {
		if h, perr := strconv.ParseFloat(string(data), 64); perr == nil {
			return h, nil
		}
		_ = c.cache.Delete(ctx, key)
	}

	h, err := c.next.Measure(ctx, f)
	if err != nil {
		return 0, err
	}
	if err := c.cache.Set(ctx, key, []byte(strconv.FormatFloat(h, 'f', -1, 64)), c.ttl); err != nil {
		c.logger.Warn("measure: cache set failed", slog.Any("error", err))
	}
	return h, nil
}

var _ paginate.Measurer = (*Cached)(nil)
