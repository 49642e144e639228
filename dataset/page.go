package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hazyhaar/axground/axtree"
)

// Page is one captured page ready to be written to disk.
type Page struct {
	ID         string // directory name under the dataset root
	URL        string
	Tree       *UITree
	Screenshot []byte // PNG bytes, may be empty
	Context    string // markdown page context, may be empty
}

// WritePage lays out a page directory under root. Existing files with the
// same names are overwritten.
func WritePage(root string, p *Page) (string, error) {
	if p.ID == "" {
		return "", fmt.Errorf("dataset: page has no id")
	}
	dir := filepath.Join(root, p.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("dataset: %w", err)
	}
	if p.Tree != nil {
		data, err := json.MarshalIndent(p.Tree, "", "  ")
		if err != nil {
			return "", fmt.Errorf("dataset: encode tree: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, UITreeFilename), append(data, '\n'), 0o644); err != nil {
			return "", err
		}
	}
	if len(p.Screenshot) > 0 {
		if err := os.WriteFile(filepath.Join(dir, ScreenshotFilename), p.Screenshot, 0o644); err != nil {
			return "", err
		}
	}
	if p.Context != "" {
		if err := os.WriteFile(filepath.Join(dir, PageContextFilename), []byte(p.Context), 0o644); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// FilterDir loads <dir>/ui_tree.json, runs the pipeline and writes
// <dir>/filtered.json referencing imageFilename. It returns the report.
func FilterDir(pipe *axtree.Pipeline, dir, imageFilename string) (*Report, error) {
	tree, err := LoadTree(filepath.Join(dir, UITreeFilename))
	if err != nil {
		return nil, err
	}
	report, err := Filter(pipe, tree, imageFilename)
	if err != nil {
		return nil, err
	}
	if err := WriteReport(filepath.Join(dir, FilteredFilename), report); err != nil {
		return nil, err
	}
	return report, nil
}
