package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/redis/go-redis/v9"

	"cvBuilder/internal/cache"
	"cvBuilder/internal/config"
	"cvBuilder/internal/database"
	"cvBuilder/internal/export"
	"cvBuilder/internal/measure"
	"cvBuilder/internal/metrics"
	"cvBuilder/internal/paginate"
	"cvBuilder/internal/storage"
	"cvBuilder/internal/store"
)

// Runtime is a wired App plus the resources it owns.
type Runtime struct {
	App     *App
	Metrics *metrics.Collector

	browser  *measure.Browser
	closers  []func() error
	textfile string
}

// Close releases every resource and writes the metrics textfile when
// configured. It is safe to call once.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if r.textfile != "" {
		if err := r.Metrics.WriteTextfile(r.textfile); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build wires the services described by cfg. The browser is only launched
// when the measure driver asks for it; otherwise it is attached on the first
// export.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, runID string) (*Runtime, error) {
	rt := &Runtime{
		Metrics:  metrics.New(),
		textfile: cfg.Metrics.Textfile,
	}
	ok := false
	defer func() {
		if !ok {
			_ = rt.Close()
		}
	}()

	var redisClient *redis.Client
	if cfg.Cache.Driver == "redis" || cfg.Store.Driver == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, redisClient.Close)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Debug("redis ready", slog.String("addr", cfg.Redis.Addr()))
	}

	rt.browser = measure.NewBrowser(logger, measure.BrowserOptions{
		Bin:     cfg.Measure.ChromeBin,
		Timeout: cfg.Measure.Timeout,
		Scale:   cfg.Export.Scale,
	})
	rt.closers = append(rt.closers, rt.browser.Close)

	var surface paginate.Measurer
	switch cfg.Measure.Driver {
	case "browser":
		if err := rt.browser.Attach(ctx); err != nil {
			return nil, fmt.Errorf("attach browser: %w", err)
		}
		surface = rt.browser
	case "estimate":
		surface = measure.NewEstimator()
	default:
		return nil, fmt.Errorf("unknown measure driver %q", cfg.Measure.Driver)
	}

	memo, err := buildCache(cfg.Cache, redisClient)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, memo.Close)
	surface = measure.NewCached(rt.Metrics.Instrument(surface), memo, cfg.Cache.TTL, logger)

	paginator := paginate.New(surface,
		paginate.WithBudget(cfg.Layout.Budget),
		paginate.WithWidth(cfg.Layout.Width),
		paginate.WithLogger(logger),
	)

	st, err := rt.buildStore(cfg, redisClient)
	if err != nil {
		return nil, err
	}

	sink, err := buildSink(ctx, cfg, runID)
	if err != nil {
		return nil, err
	}
	exporter := export.New(lazyRenderer{b: rt.browser}, sink,
		export.WithLogger(logger),
		export.WithObserver(rt.Metrics),
	)

	rt.App = New(Deps{
		Store:     st,
		Paginator: paginator,
		Exporter:  exporter,
		Observer:  rt.Metrics,
		Logger:    logger,
		RunID:     runID,
	})
	ok = true
	return rt, nil
}

func buildCache(cfg config.CacheConfig, client *redis.Client) (cache.Cache, error) {
	switch cfg.Driver {
	case "memory":
		return cache.NewMemory(), nil
	case "redis":
		return cache.NewRedis(nopCloseRedis{client}, cfg.Prefix), nil
	case "none":
		return cache.Null{}, nil
	}
	return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
}

func (rt *Runtime) buildStore(cfg *config.Config, client *redis.Client) (store.Store, error) {
	switch cfg.Store.Driver {
	case "file":
		return store.NewFile(cfg.Store.Path), nil
	case "redis":
		return store.NewRedis(client, cfg.Store.Key), nil
	case "database":
		db, err := database.InitDatabase(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("unwrap db: %w", err)
		}
		rt.closers = append(rt.closers, sqlDB.Close)
		return store.NewDatabase(db, cfg.Store.Key), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func buildSink(ctx context.Context, cfg *config.Config, runID string) (export.Sink, error) {
	switch cfg.Export.Sink {
	case "dir":
		return export.DirSink{Dir: cfg.Export.Dir}, nil
	case "minio":
		client, err := storage.NewClient(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("init storage client: %w", err)
		}
		return export.ObjectSink{
			Client:  client,
			Prefix:  path.Join(cfg.MinIO.Prefix, runID),
			LinkTTL: 24 * time.Hour,
		}, nil
	}
	return nil, fmt.Errorf("unknown export sink %q", cfg.Export.Sink)
}

// nopCloseRedis keeps the shared client open when the cache is closed; the
// runtime closes it once.
type nopCloseRedis struct {
	*redis.Client
}

func (nopCloseRedis) Close() error { return nil }

// lazyRenderer attaches the browser on first use so estimate-only runs never
// launch Chromium.
type lazyRenderer struct {
	b *measure.Browser
}

func (l lazyRenderer) attach(ctx context.Context) error {
	if l.b.Ready() {
		return nil
	}
	return l.b.Attach(ctx)
}

func (l lazyRenderer) Rasterize(ctx context.Context, document string, quality int) ([][]byte, error) {
	if err := l.attach(ctx); err != nil {
		return nil, err
	}
	return l.b.Rasterize(ctx, document, quality)
}

func (l lazyRenderer) Print(ctx context.Context, document string) ([]byte, error) {
	if err := l.attach(ctx); err != nil {
		return nil, err
	}
	return l.b.Print(ctx, document)
}
