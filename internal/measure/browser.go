// Package measure provides measurement surfaces for the paginator: a headless
// Chromium driven by go-rod, a synthetic estimator and a caching decorator.
package measure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"cvBuilder/internal/paginate"
	"cvBuilder/internal/templates"
)

const measureScript = `(id, markup) => {
  const el = document.getElementById(id);
  if (!el) { return -1; }
  el.innerHTML = markup;
  return el.scrollHeight;
}`

const fontsReadyScript = `() => {
  if (document && document.fonts && document.fonts.ready) {
    return Promise.race([
      document.fonts.ready.then(() => true),
      new Promise((resolve) => setTimeout(() => resolve(true), 3000))
    ]);
  }
  return true;
}`

// BrowserOptions configure the headless browser.
type BrowserOptions struct {
	// Bin overrides the Chromium binary; empty looks one up.
	Bin     string
	Timeout time.Duration
	// Scale is the device pixel ratio used for screenshots.
	Scale float64
}

// Browser is a headless Chromium page used both as the measurement surface
// and as the rasteriser for export. It is a shared mutable resource: every
// call holds its mutex for its whole duration.
type Browser struct {
	mu     sync.Mutex
	logger *slog.Logger
	opts   BrowserOptions

	launch  *launcher.Launcher
	browser *rod.Browser
	page    *rod.Page

	loadedHead  string
	loadedWidth float64
}

// NewBrowser creates an unattached surface. Call Attach before use.
func NewBrowser(logger *slog.Logger, opts BrowserOptions) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 90 * time.Second
	}
	if opts.Scale <= 0 {
		opts.Scale = 2
	}
	return &Browser{logger: logger, opts: opts}
}

// Attach launches Chromium and opens the page the surface works in.
func (b *Browser) Attach(ctx context.Context) (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page != nil {
		return nil
	}

	launch := launcher.New().
		Headless(true).
		NoSandbox(true).
		Context(ctx)
	defer func() {
		if err != nil {
			launch.Cleanup()
		}
	}()
	if b.opts.Bin != "" {
		launch = launch.Bin(b.opts.Bin)
	} else if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	b.logger.Info("measure: launching chromium")
	controlURL, err := launch.Launch()
	if err != nil {
		return fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Timeout(b.opts.Timeout)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("create page: %w", err)
	}
	width, height := viewportSize()
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: b.opts.Scale,
	}); err != nil {
		_ = page.Close()
		_ = browser.Close()
		return fmt.Errorf("set viewport: %w", err)
	}

	b.launch = launch
	b.browser = browser
	b.page = page
	b.loadedHead = ""
	b.logger.Info("measure: attached")
	return nil
}

// Ready reports whether Attach has succeeded and Close has not been called.
func (b *Browser) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page != nil
}

// Close tears down the page, the browser and the launcher.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page == nil {
		return nil
	}
	var errs []error
	if err := b.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close page: %w", err))
	}
	if err := b.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	b.launch.Cleanup()
	b.page, b.browser, b.launch = nil, nil, nil
	b.loadedHead = ""
	return errors.Join(errs...)
}

// Measure swaps the fragment into the measurement element and returns its
// scroll height. The surface document is only reloaded when the stylesheet
// or width changes.
func (b *Browser) Measure(ctx context.Context, f paginate.Fragment) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page == nil {
		return 0, paginate.ErrSurfaceNotReady
	}
	page := b.page.Context(ctx)

	if f.Head != b.loadedHead || f.Width != b.loadedWidth {
		doc, err := templates.SurfaceDocument(f.Head, f.Width)
		if err != nil {
			return 0, err
		}
		if err := b.load(page, doc); err != nil {
			return 0, err
		}
		b.loadedHead, b.loadedWidth = f.Head, f.Width
	}

	obj, err := page.Eval(measureScript, templates.MeasureElementID, f.Markup)
	if err != nil {
		return 0, fmt.Errorf("evaluate measurement: %w", err)
	}
	h := obj.Value.Num()
	if h < 0 {
		b.loadedHead = ""
		return 0, paginate.ErrSurfaceNotReady
	}
	return h, nil
}

func (b *Browser) load(page *rod.Page, doc string) error {
	if err := page.SetDocumentContent(doc); err != nil {
		return fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	// 等待字体就绪，避免回退字体度量导致分页偏差
	if _, err := page.Timeout(5 * time.Second).Eval(fontsReadyScript); err != nil {
		b.logger.Warn("measure: document.fonts.ready wait failed, continue", slog.Any("error", err))
	}
	return nil
}

// Rasterize loads a standalone document and captures every .cv-paper as a
// JPEG, in document order.
func (b *Browser) Rasterize(ctx context.Context, document string, quality int) ([][]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page == nil {
		return nil, paginate.ErrSurfaceNotReady
	}
	page := b.page.Context(ctx)
	b.loadedHead = ""
	if err := b.load(page, document); err != nil {
		return nil, err
	}

	papers, err := page.Elements(".cv-paper")
	if err != nil {
		return nil, fmt.Errorf("find pages: %w", err)
	}
	shots := make([][]byte, 0, len(papers))
	for i, el := range papers {
		data, err := el.Screenshot(proto.PageCaptureScreenshotFormatJpeg, quality)
		if err != nil {
			return nil, fmt.Errorf("screenshot page %d: %w", i+1, err)
		}
		shots = append(shots, data)
	}
	return shots, nil
}

// Print loads a standalone document and prints it with Chromium's PDF
// printer at A4 with no margins.
func (b *Browser) Print(ctx context.Context, document string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page == nil {
		return nil, paginate.ErrSurfaceNotReady
	}
	page := b.page.Context(ctx)
	b.loadedHead = ""
	if err := b.load(page, document); err != nil {
		return nil, err
	}
	if err := (proto.EmulationSetEmulatedMedia{Media: "print"}).Call(page); err != nil {
		return nil, fmt.Errorf("set emulated media to print: %w", err)
	}
	defer func() {
		_ = (proto.EmulationSetEmulatedMedia{Media: ""}).Call(page)
	}()

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PaperWidth:        float64Ptr(8.27),
		PaperHeight:       float64Ptr(11.69),
		MarginTop:         float64Ptr(0),
		MarginBottom:      float64Ptr(0),
		MarginLeft:        float64Ptr(0),
		MarginRight:       float64Ptr(0),
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}
	return data, nil
}

func float64Ptr(value float64) *float64 {
	return &value
}

var _ paginate.Measurer = (*Browser)(nil)

// viewportSize 返回一张 A4 纸在 96 DPI 下的整数像素尺寸。
func viewportSize() (width, height int) {
	return int(math.Round(templates.PageWidthPx)), int(math.Round(templates.PageHeightPx))
}
