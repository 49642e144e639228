package imaging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/hazyhaar/axground/dataset"
)

// BatchCrop crops every page screenshot under root to box, writing
// screenshot_cropped.png alongside it. Pages without a screenshot are
// skipped. It returns the number of pages cropped.
func BatchCrop(root string, box Box, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, fmt.Errorf("imaging: %w", err)
	}
	var pages []string
	for _, e := range entries {
		if e.IsDir() {
			pages = append(pages, e.Name())
		}
	}
	sort.Strings(pages)

	count := 0
	for _, page := range pages {
		dir := filepath.Join(root, page)
		src := filepath.Join(dir, dataset.ScreenshotFilename)
		if _, err := os.Stat(src); err != nil {
			logger.Warn("skipping page without screenshot", "page", page)
			continue
		}
		dst := filepath.Join(dir, dataset.CroppedScreenshotFilename)
		if err := CropFile(src, dst, box); err != nil {
			return count, fmt.Errorf("imaging: crop %s: %w", page, err)
		}
		count++
	}
	return count, nil
}
