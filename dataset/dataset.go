// Package dataset owns the on-disk layout of grounding datasets: one
// directory per captured page, and the packaged benchmark form consumed
// by evaluation tooling.
//
// Page directory:
//
//	<root>/<page>/ui_tree.json           canonical element tree
//	<root>/<page>/screenshot.png         full capture
//	<root>/<page>/screenshot_cropped.png viewport-only crop (imaging)
//	<root>/<page>/filtered.json          sample report
//	<root>/<page>/page_context.md        markdown page context (pagetext)
//
// Benchmark directory:
//
//	<target>/images/<page>.png
//	<target>/test.jsonl                  one Report per line
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hazyhaar/axground/axtree"
)

// Well-known filenames inside a page directory.
const (
	UITreeFilename            = "ui_tree.json"
	ScreenshotFilename        = "screenshot.png"
	CroppedScreenshotFilename = "screenshot_cropped.png"
	FilteredFilename          = "filtered.json"
	PageContextFilename       = "page_context.md"

	// Benchmark layout.
	ImagesDirname = "images"
	TestFilename  = "test.jsonl"
)

// Screen is the capture viewport size in pixels.
type Screen struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// UITree is the stored form of one canonical element tree.
type UITree struct {
	Timestamp string       `json:"timestamp"`
	Screen    Screen       `json:"screen"`
	Root      *axtree.Node `json:"root"`
}

// NewUITree stamps a tree with the current UTC time.
func NewUITree(root *axtree.Node, screen Screen) *UITree {
	return &UITree{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Screen:    screen,
		Root:      root,
	}
}

// Report is the externally consumed artifact for one page: the image it
// refers to plus the clickable samples found on it.
type Report struct {
	ImageFilename string          `json:"image_filename"`
	ImageID       string          `json:"image_id,omitempty"`
	ImageWidth    int             `json:"image_width"`
	ImageHeight   int             `json:"image_height"`
	SampleCount   int             `json:"sample_count"`
	TestSamples   []axtree.Sample `json:"test_samples"`
}

// Filter runs the grounding pipeline over a stored tree and assembles the
// report referencing imageFilename.
func Filter(pipe *axtree.Pipeline, tree *UITree, imageFilename string) (*Report, error) {
	if tree == nil {
		return nil, fmt.Errorf("dataset: nil tree")
	}
	screen := axtree.Bounds{
		Width:  float64(tree.Screen.Width),
		Height: float64(tree.Screen.Height),
	}
	res, err := pipe.Ground(tree.Root, screen)
	if err != nil {
		return nil, fmt.Errorf("dataset: filter: %w", err)
	}
	return &Report{
		ImageFilename: imageFilename,
		ImageWidth:    tree.Screen.Width,
		ImageHeight:   tree.Screen.Height,
		SampleCount:   len(res.Samples),
		TestSamples:   res.Samples,
	}, nil
}

// LoadTree reads a ui_tree.json file.
func LoadTree(path string) (*UITree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tree UITree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	return &tree, nil
}

// LoadReport reads a filtered.json file.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	return &r, nil
}

// WriteReport writes a filtered.json file.
func WriteReport(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
