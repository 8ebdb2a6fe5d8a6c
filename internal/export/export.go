// Package export turns paginated page markup into PDF or JPEG files.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cvBuilder/internal/resume"
	"cvBuilder/internal/templates"
)

// Format is the requested output type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatJPEG Format = "jpg"
)

// Mode selects how a PDF is produced.
type Mode string

const (
	// ModeRaster screenshots every page and assembles the JPEGs into a PDF.
	ModeRaster Mode = "raster"
	// ModePrint uses Chromium's PDF printer; text stays selectable.
	ModePrint Mode = "print"
)

const (
	PDFName         = "cv_professional.pdf"
	DefaultQuality  = 95
	DefaultDelay    = 500 * time.Millisecond
	contentTypePDF  = "application/pdf"
	contentTypeJPEG = "image/jpeg"
)

var (
	ErrNoPages       = errors.New("nothing to export")
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoRenderer    = errors.New("export needs a browser surface")
)

// ParseFormat accepts pdf, jpg and jpeg.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Renderer rasterises or prints a standalone document. measure.Browser
// implements it.
type Renderer interface {
	Rasterize(ctx context.Context, document string, quality int) ([][]byte, error)
	Print(ctx context.Context, document string) ([]byte, error)
}

// Observer receives one call per Run.
type Observer interface {
	ObserveExport(format string, pages int, elapsed time.Duration, err error)
}

// Options tune one export run.
type Options struct {
	Format  Format
	Mode    Mode
	Quality int
	// PageDelay is the pause between consecutive JPEG pages.
	PageDelay time.Duration
	// Overlay is an optional PNG drawn over the first page only.
	Overlay []byte
	// Verify re-reads the produced PDF and checks its page count.
	Verify bool
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeRaster
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.PageDelay < 0 {
		o.PageDelay = 0
	}
	return o
}

// Artifact is one written file.
type Artifact struct {
	Name        string
	ContentType string
	Location    string
	Pages       int
	Bytes       int64
}

// Exporter is sequential: pages are produced and written one after another.
type Exporter struct {
	renderer Renderer
	sink     Sink
	observer Observer
	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

type Option func(*Exporter)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Exporter) { e.observer = o }
}

// New creates an Exporter writing to sink.
func New(renderer Renderer, sink Sink, opts ...Option) *Exporter {
	e := &Exporter{
		renderer: renderer,
		sink:     sink,
		logger:   slog.Default(),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run exports the given page markup with the stylesheet derived from prefs.
func (e *Exporter) Run(ctx context.Context, pages []string, prefs resume.Preferences, opts Options) (artifacts []Artifact, err error) {
	opts = opts.withDefaults()
	start := time.Now()
	defer func() {
		if e.observer != nil {
			e.observer.ObserveExport(string(opts.Format), len(pages), time.Since(start), err)
		}
	}()

	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	if e.renderer == nil {
		return nil, ErrNoRenderer
	}
	head, err := templates.Head(prefs)
	if err != nil {
		return nil, err
	}

	log := e.logger.With(
		slog.String("format", string(opts.Format)),
		slog.String("mode", string(opts.Mode)),
		slog.Int("pages", len(pages)),
	)
	log.Info("export: start")

	switch opts.Format {
	case FormatPDF:
		artifacts, err = e.pdf(ctx, head, pages, opts)
	case FormatJPEG:
		artifacts, err = e.jpeg(ctx, head, pages, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
	if err != nil {
		log.Error("export: failed", slog.Any("error", err))
		return nil, err
	}
	log.Info("export: done", slog.Int("files", len(artifacts)), slog.Duration("elapsed", time.Since(start)))
	return artifacts, nil
}

func (e *Exporter) rasterize(ctx context.Context, head string, pages []string, opts Options) ([][]byte, error) {
	doc, err := templates.Standalone(head, pages)
	if err != nil {
		return nil, err
	}
	shots, err := e.renderer.Rasterize(ctx, doc, opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("rasterize pages: %w", err)
	}
	if len(shots) != len(pages) {
		return nil, fmt.Errorf("rasterize pages: got %d images for %d pages", len(shots), len(pages))
	}
	if len(opts.Overlay) > 0 {
		first, err := CompositeJPEG(shots[0], opts.Overlay, opts.Quality)
		if err != nil {
			return nil, err
		}
		shots[0] = first
	}
	return shots, nil
}

func (e *Exporter) pdf(ctx context.Context, head string, pages []string, opts Options) ([]Artifact, error) {
	var (
		data []byte
		err  error
	)
	switch opts.Mode {
	case ModePrint:
		data, err = e.print(ctx, head, pages, opts)
	case ModeRaster:
		var shots [][]byte
		shots, err = e.rasterize(ctx, head, pages, opts)
		if err == nil {
			data, err = AssemblePDF(shots)
		}
	default:
		err = fmt.Errorf("unknown pdf mode %q", opts.Mode)
	}
	if err != nil {
		return nil, err
	}

	if opts.Verify {
		if err := VerifyPDF(data, len(pages)); err != nil {
			return nil, err
		}
	}

	loc, err := e.sink.Write(ctx, PDFName, contentTypePDF, data)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", PDFName, err)
	}
	return []Artifact{{
		Name:        PDFName,
		ContentType: contentTypePDF,
		Location:    loc,
		Pages:       len(pages),
		Bytes:       int64(len(data)),
	}}, nil
}

func (e *Exporter) print(ctx context.Context, head string, pages []string, opts Options) ([]byte, error) {
	if len(opts.Overlay) > 0 {
		first, err := OverlayMarkup(pages[0], opts.Overlay)
		if err != nil {
			return nil, err
		}
		pages = append([]string{first}, pages[1:]...)
	}
	doc, err := templates.Standalone(head, pages)
	if err != nil {
		return nil, err
	}
	data, err := e.renderer.Print(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return data, nil
}

func (e *Exporter) jpeg(ctx context.Context, head string, pages []string, opts Options) ([]Artifact, error) {
	shots, err := e.rasterize(ctx, head, pages, opts)
	if err != nil {
		return nil, err
	}
	artifacts := make([]Artifact, 0, len(shots))
	for i, shot := range shots {
		if i > 0 {
			if err := e.sleep(ctx, opts.PageDelay); err != nil {
				return artifacts, err
			}
		}
		name := fmt.Sprintf("cv_page_%d.jpg", i+1)
		loc, err := e.sink.Write(ctx, name, contentTypeJPEG, shot)
		if err != nil {
			return artifacts, fmt.Errorf("write %s: %w", name, err)
		}
		artifacts = append(artifacts, Artifact{
			Name:        name,
			ContentType: contentTypeJPEG,
			Location:    loc,
			Pages:       1,
			Bytes:       int64(len(shot)),
		})
	}
	return artifacts, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
