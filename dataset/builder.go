package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// BuildBenchmark packages filtered page directories under source into the
// benchmark layout under target: cropped screenshots copied into images/
// and one Report per line in test.jsonl. Page directories missing either
// the report or the cropped screenshot are skipped with a log line.
// It returns the number of pages packaged.
func BuildBenchmark(source, target string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pages, err := pageDirs(source)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Join(target, ImagesDirname), 0o755); err != nil {
		return 0, fmt.Errorf("dataset: %w", err)
	}
	out, err := os.Create(filepath.Join(target, TestFilename))
	if err != nil {
		return 0, fmt.Errorf("dataset: %w", err)
	}
	defer out.Close()
	w := bufio.NewWriter(out)

	count := 0
	for _, page := range pages {
		dir := filepath.Join(source, page)
		report, err := LoadReport(filepath.Join(dir, FilteredFilename))
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn("skipping page without report", "page", page)
				continue
			}
			return count, err
		}
		image := filepath.Join(dir, CroppedScreenshotFilename)
		if _, err := os.Stat(image); err != nil {
			logger.Warn("skipping page without cropped screenshot", "page", page)
			continue
		}
		rel := filepath.Join(ImagesDirname, page+".png")
		if err := copyFile(image, filepath.Join(target, rel)); err != nil {
			return count, fmt.Errorf("dataset: copy %s: %w", page, err)
		}
		report.ImageFilename = rel
		report.ImageID = page
		line, err := json.Marshal(report)
		if err != nil {
			return count, fmt.Errorf("dataset: encode %s: %w", page, err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return count, err
		}
		count++
	}
	if err := w.Flush(); err != nil {
		return count, err
	}
	return count, nil
}

// CleanEmpty removes page directories whose report holds no samples. Pages
// without a report are left alone. It returns the removed directory names.
func CleanEmpty(root string) ([]string, error) {
	pages, err := pageDirs(root)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, page := range pages {
		dir := filepath.Join(root, page)
		report, err := LoadReport(filepath.Join(dir, FilteredFilename))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, err
		}
		if report.SampleCount > 0 {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return removed, fmt.Errorf("dataset: remove %s: %w", page, err)
		}
		removed = append(removed, page)
	}
	return removed, nil
}

func pageDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	var pages []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != ImagesDirname {
			pages = append(pages, e.Name())
		}
	}
	sort.Strings(pages)
	return pages, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
