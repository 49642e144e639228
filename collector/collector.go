// Package collector drives a Chrome instance to capture grounding pages:
// accessibility snapshot, viewport screenshot and page context for every
// URL, ready to be written as a dataset page directory.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/axground/axtree"
	"github.com/hazyhaar/axground/internal/browser"
	"github.com/hazyhaar/axground/dataset"
	"github.com/hazyhaar/axground/pagetext"
)

// Config configures a Collector.
type Config struct {
	// Viewport size in CSS pixels. Default: 1280x720.
	Width  int
	Height int

	// Settle is the delay after page load before the snapshot. Default: 2s.
	Settle time.Duration

	// Pipeline configures the grounding pass run on each snapshot.
	Pipeline axtree.Config

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.Settle <= 0 {
		c.Settle = 2 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Collector captures pages through a managed Chrome instance.
type Collector struct {
	cfg  Config
	mgr  *browser.Manager
	pipe *axtree.Pipeline
	text *pagetext.Extractor
}

// New creates a Collector on top of a started browser manager.
func New(cfg Config, mgr *browser.Manager) *Collector {
	cfg.defaults()
	return &Collector{
		cfg:  cfg,
		mgr:  mgr,
		pipe: axtree.New(cfg.Pipeline),
		text: pagetext.New(),
	}
}

// Capture is everything collected from one page visit.
type Capture struct {
	URL        string
	PageID     string
	Snapshot   *Snapshot
	Tree       *dataset.UITree
	Report     *dataset.Report
	Screenshot []byte
	Context    string
}

// Capture visits pageURL and collects the snapshot, canonical tree,
// grounding report, viewport screenshot and markdown context. Screenshot
// and context failures degrade to empty values with a warning; snapshot
// failures abort the capture.
func (c *Collector) Capture(ctx context.Context, pageURL string) (*Capture, error) {
	log := c.cfg.Logger

	tab, err := browser.OpenTab(ctx, c.mgr, pageURL, c.cfg.Width, c.cfg.Height, c.cfg.Settle)
	if err != nil {
		return nil, fmt.Errorf("collector: %w", err)
	}
	defer tab.Close()

	snap, err := TakeSnapshot(ctx, tab.Page)
	if err != nil {
		return nil, err
	}

	diag := axtree.NewDiagnostics()
	root := axtree.Build(snap.Nodes, snap.Screen, &diag)
	if n := diag.UnmappedTotal(); n > 0 {
		log.Debug("unmapped roles in snapshot", "url", pageURL, "count", n, "roles", diag.UnmappedRoles)
	}
	tree := dataset.NewUITree(root, dataset.Screen{
		Width:  int(snap.Screen.Width),
		Height: int(snap.Screen.Height),
	})

	report, err := dataset.Filter(c.pipe, tree, dataset.CroppedScreenshotFilename)
	if err != nil {
		return nil, err
	}

	capture := &Capture{
		URL:      pageURL,
		PageID:   PageID(pageURL),
		Snapshot: snap,
		Tree:     tree,
		Report:   report,
	}

	shot, err := tab.Page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		log.Warn("screenshot failed", "url", pageURL, "error", err)
	} else {
		capture.Screenshot = shot
	}

	if src, err := tab.HTML(ctx); err != nil {
		log.Warn("page html failed", "url", pageURL, "error", err)
	} else if page, err := c.text.Extract(src, pageURL); err != nil {
		log.Warn("page context failed", "url", pageURL, "error", err)
	} else {
		capture.Context = page.Render()
	}

	log.Info("captured page", "url", pageURL, "samples", report.SampleCount)
	return capture, nil
}

// CaptureAll visits every URL in order, writing page directories under
// root and recording outcomes in the manifest when one is given. Failed
// pages are logged and skipped. It returns the number of pages written.
func (c *Collector) CaptureAll(ctx context.Context, urls []string, root string, manifest *dataset.Manifest) (int, error) {
	log := c.cfg.Logger
	count := 0
	for _, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		capture, err := c.Capture(ctx, pageURL)
		if err != nil {
			log.Error("capture failed", "url", pageURL, "error", err)
			if manifest != nil {
				_ = manifest.RecordPage(ctx, PageID(pageURL), pageURL, 0, dataset.PageFailed)
			}
			continue
		}
		if _, err := dataset.WritePage(root, &dataset.Page{
			ID:         capture.PageID,
			URL:        pageURL,
			Tree:       capture.Tree,
			Screenshot: capture.Screenshot,
			Context:    capture.Context,
		}); err != nil {
			return count, err
		}
		if manifest != nil {
			status := dataset.PageOK
			if capture.Report.SampleCount == 0 {
				status = dataset.PageEmpty
			}
			if err := manifest.RecordPage(ctx, capture.PageID, pageURL, capture.Report.SampleCount, status); err != nil {
				log.Warn("manifest write failed", "url", pageURL, "error", err)
			}
		}
		count++
	}
	return count, nil
}

// PageID derives a filesystem-safe directory name from a URL:
// host and path joined, with runs of non-alphanumerics collapsed to
// underscores.
func PageID(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return sanitizeID(pageURL)
	}
	id := u.Host
	if p := strings.Trim(u.Path, "/"); p != "" {
		id += "_" + p
	}
	return sanitizeID(id)
}

func sanitizeID(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
