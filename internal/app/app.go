// Package app is the controller: the services the CLI drives, wired once at
// start-up and passed around explicitly.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cvBuilder/internal/errcode"
	"cvBuilder/internal/export"
	"cvBuilder/internal/paginate"
	"cvBuilder/internal/resume"
	"cvBuilder/internal/storage"
	"cvBuilder/internal/store"
	"cvBuilder/internal/templates"
)

// ErrNoHistory is returned by History when the store keeps no export log.
var ErrNoHistory = errors.New("store keeps no export history")

// Exporter is satisfied by *export.Exporter.
type Exporter interface {
	Run(ctx context.Context, pages []string, prefs resume.Preferences, opts export.Options) ([]export.Artifact, error)
}

// PaginationObserver is satisfied by *metrics.Collector.
type PaginationObserver interface {
	ObservePagination(template string, res *paginate.Result, err error)
}

// Deps are the services an App is built from.
type Deps struct {
	Store     store.Store
	Paginator *paginate.Paginator
	Exporter  Exporter
	Observer  PaginationObserver
	Logger    *slog.Logger
	RunID     string
}

// App serialises every operation that touches the measurement surface.
type App struct {
	mu        sync.Mutex
	store     store.Store
	paginator *paginate.Paginator
	exporter  Exporter
	observer  PaginationObserver
	logger    *slog.Logger
	runID     string
}

// New builds an App from explicit dependencies.
func New(d Deps) *App {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		store:     d.Store,
		paginator: d.Paginator,
		exporter:  d.Exporter,
		observer:  d.Observer,
		logger:    logger,
		runID:     d.RunID,
	}
}

// Load returns the saved snapshot, or the defaults when nothing usable has
// been saved.
func (a *App) Load(ctx context.Context) (resume.Snapshot, error) {
	snap, err := a.store.Load(ctx)
	switch {
	case err == nil:
		return snap, nil
	case errors.Is(err, store.ErrNotFound):
		return resume.DefaultSnapshot(), nil
	case errors.Is(err, store.ErrCorrupt):
		a.logger.Warn("app: saved snapshot unreadable, using defaults", slog.Any("error", err))
		return resume.DefaultSnapshot(), nil
	default:
		return resume.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
}

// Update normalises and saves snap, then paginates it. The snapshot is
// saved even when pagination fails.
func (a *App) Update(ctx context.Context, snap resume.Snapshot) (resume.Snapshot, *paginate.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap.Normalize()
	if err := a.store.Save(ctx, snap); err != nil {
		return snap, nil, fmt.Errorf("save snapshot: %w", err)
	}
	res, err := a.paginate(ctx, snap)
	return snap, res, err
}

// Paginate lays snap out without saving it.
func (a *App) Paginate(ctx context.Context, snap resume.Snapshot) (*paginate.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	snap.Normalize()
	return a.paginate(ctx, snap)
}

func (a *App) paginate(ctx context.Context, snap resume.Snapshot) (*paginate.Result, error) {
	start := time.Now()
	res, err := a.paginator.Paginate(ctx, snap.Template, snap.Record, snap.Preferences)
	if a.observer != nil {
		a.observer.ObservePagination(string(snap.Template), res, err)
	}
	if err != nil {
		return nil, fmt.Errorf("paginate: %w", err)
	}
	for _, w := range res.Warnings {
		a.logger.Warn("app: pagination warning",
			slog.Int("code", w.Code),
			slog.Int("page", w.Page),
			slog.String("message", w.Message),
		)
	}
	a.logger.Info("app: paginated",
		slog.String("template", string(snap.Template)),
		slog.Int("pages", len(res.Pages)),
		slog.Int("units", len(res.Units)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// Export paginates snap and hands the pages to the exporter. Written files
// are recorded when the store keeps an export log.
func (a *App) Export(ctx context.Context, snap resume.Snapshot, opts export.Options) ([]export.Artifact, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.exporter == nil {
		return nil, export.ErrNoRenderer
	}
	snap.Normalize()
	res, err := a.paginate(ctx, snap)
	if err != nil {
		return nil, err
	}
	artifacts, err := a.exporter.Run(ctx, res.Markup(), snap.Preferences, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	if log, ok := a.store.(store.ExportLog); ok {
		entries := make([]store.ExportEntry, 0, len(artifacts))
		for _, art := range artifacts {
			entries = append(entries, store.ExportEntry{
				RunID:    a.runID,
				Format:   string(opts.Format),
				Name:     art.Name,
				Location: art.Location,
				Pages:    art.Pages,
				Bytes:    art.Bytes,
			})
		}
		if err := log.RecordExports(ctx, entries); err != nil {
			a.logger.Warn("app: record export history failed", slog.Any("error", err))
		}
	}
	return artifacts, nil
}

// Reset clears the saved snapshot and returns the defaults.
func (a *App) Reset(ctx context.Context) (resume.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Clear(ctx); err != nil {
		return resume.Snapshot{}, fmt.Errorf("clear snapshot: %w", err)
	}
	return resume.DefaultSnapshot(), nil
}

// History lists recent exports, newest first.
func (a *App) History(ctx context.Context, limit int) ([]store.ExportEntry, error) {
	log, ok := a.store.(store.ExportLog)
	if !ok {
		return nil, ErrNoHistory
	}
	return log.Exports(ctx, limit)
}

// Code maps an error to its numeric code.
func Code(err error) int {
	switch {
	case err == nil:
		return errcode.OK
	case errors.Is(err, paginate.ErrSurfaceNotReady):
		return errcode.SurfaceNotReady
	case errors.Is(err, resume.ErrInvalidSnapshot),
		errors.Is(err, templates.ErrUnknownTemplate),
		errors.Is(err, export.ErrUnknownFormat):
		return errcode.InvalidInput
	case errors.Is(err, store.ErrNotFound):
		return errcode.ResourceMissing
	case errors.Is(err, store.ErrCorrupt):
		return errcode.StoreCorrupt
	case errors.Is(err, storage.ErrAccessDenied):
		return errcode.SinkDenied
	default:
		return errcode.SystemError
	}
}
