// Package axtree turns raw browser accessibility snapshots into clickable
// UI element samples for grounding-model training and evaluation.
//
// The pipeline has four stages, applied strictly left to right:
//
//	flat nodes → Build → Walk → Select → Resolve → samples
//
// Build reconstructs a single rooted tree from the flat id-referenced node
// list, splicing out ignored nodes. Walk computes true on-screen
// visibility under ancestor clipping. Select keeps interactive, named,
// adequately sized nodes, and Resolve drops candidates covered by
// later-painted elements.
//
// Every stage degrades gracefully on bad data — dangling references,
// missing bounds, unmapped roles — and yields fewer samples instead of
// failing. The only errors Process returns are integration faults such as
// a non-positive screen size.
//
// Usage:
//
//	pipe := axtree.New(axtree.Config{})
//	res, err := pipe.Process(nodes, axtree.Bounds{Width: 1920, Height: 1080})
//	for _, s := range res.Samples { ... }
package axtree

import (
	"fmt"
	"log/slog"
)

// Pipeline applies the snapshot → samples transform. It holds only
// configuration; every Process call is independent, so one Pipeline may
// serve concurrent snapshots.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{cfg: cfg, logger: cfg.Logger}
}

// Result is the outcome of processing one snapshot.
type Result struct {
	// Samples are the final clickable elements, in paint order.
	Samples []Sample

	// Records is the full on-screen node list the samples were drawn
	// from, in traversal (paint) order.
	Records []VisibleRecord

	// Diagnostics accumulated during the build (unmapped roles).
	Diagnostics Diagnostics
}

// Process runs the whole pipeline over one flat snapshot.
//
// Data-quality problems never surface as errors; the only error is a
// contract violation by the caller (screen without positive dimensions).
func (p *Pipeline) Process(nodes []RawNode, screen Bounds) (*Result, error) {
	if screen.Width <= 0 || screen.Height <= 0 {
		return nil, fmt.Errorf("axtree: screen bounds must be positive, got %gx%g",
			screen.Width, screen.Height)
	}

	diag := NewDiagnostics()
	root := Build(nodes, screen, &diag)

	res := p.ground(root, screen)
	res.Diagnostics = diag

	if n := diag.UnmappedTotal(); n > 0 {
		p.logger.Debug("axtree: unmapped roles in snapshot",
			"nodes", n, "distinct", len(diag.UnmappedRoles))
	}
	return res, nil
}

// Ground runs visibility, selection, and occlusion over an already-built
// canonical tree, for callers that hold the nested form directly.
func (p *Pipeline) Ground(root *Node, screen Bounds) (*Result, error) {
	if screen.Width <= 0 || screen.Height <= 0 {
		return nil, fmt.Errorf("axtree: screen bounds must be positive, got %gx%g",
			screen.Width, screen.Height)
	}
	return p.ground(root, screen), nil
}

func (p *Pipeline) ground(root *Node, screen Bounds) *Result {
	if root == nil {
		return &Result{Samples: []Sample{}}
	}

	records := Walk(root, RectOf(screen), &p.cfg)
	candidates := Select(records, &p.cfg)
	samples := Resolve(candidates, records, &p.cfg)

	return &Result{Samples: samples, Records: records}
}
