package evals

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/hazyhaar/axground/dataset"
)

// Config configures a benchmark run.
type Config struct {
	// Workers is the number of concurrent model calls. Default: 4.
	Workers int

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Result is the outcome of one sample.
type Result struct {
	ImageID     string  `json:"image_id"`
	SampleID    string  `json:"sample_id"`
	Instruction string  `json:"instruction"`
	Category    string  `json:"category"`
	Point       Point   `json:"point"`
	PixelX      float64 `json:"pixel_x"`
	PixelY      float64 `json:"pixel_y"`
	Hit         bool    `json:"hit"`
	Error       string  `json:"error,omitempty"`
}

// Summary aggregates a run.
type Summary struct {
	Provider string  `json:"provider"`
	Total    int     `json:"total"`
	Hits     int     `json:"hits"`
	Errors   int     `json:"errors"`
	Accuracy float64 `json:"accuracy"`
}

type task struct {
	report *dataset.Report
	image  []byte
	sample int
}

// Run scores every sample of the benchmark under dir against the provider
// and writes one Result per line to resultsPath. Model errors score as
// misses, they do not abort the run.
func Run(ctx context.Context, provider Provider, dir, resultsPath string, cfg Config) (*Summary, error) {
	cfg.defaults()
	log := cfg.Logger

	reports, err := loadBenchmark(dir)
	if err != nil {
		return nil, err
	}

	tasks := make(chan task)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				results <- scoreSample(ctx, provider, t)
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, r := range reports {
			image, err := os.ReadFile(filepath.Join(dir, r.ImageFilename))
			if err != nil {
				log.Error("benchmark image unreadable", "image", r.ImageFilename, "error", err)
				continue
			}
			for i := range r.TestSamples {
				select {
				case tasks <- task{report: r, image: image, sample: i}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out, err := os.Create(resultsPath)
	if err != nil {
		return nil, fmt.Errorf("evals: %w", err)
	}
	defer out.Close()
	w := bufio.NewWriter(out)

	summary := &Summary{Provider: provider.Name()}
	for res := range results {
		summary.Total++
		if res.Error != "" {
			summary.Errors++
		} else if res.Hit {
			summary.Hits++
		}
		line, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("evals: encode result: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if summary.Total > 0 {
		summary.Accuracy = float64(summary.Hits) / float64(summary.Total)
	}
	log.Info("benchmark complete",
		"provider", summary.Provider,
		"total", summary.Total,
		"hits", summary.Hits,
		"errors", summary.Errors,
		"accuracy", summary.Accuracy)
	return summary, nil
}

func scoreSample(ctx context.Context, provider Provider, t task) Result {
	s := t.report.TestSamples[t.sample]
	res := Result{
		ImageID:     t.report.ImageID,
		SampleID:    s.ID,
		Instruction: s.Name,
		Category:    string(s.Category),
	}
	point, err := provider.Locate(ctx, t.image, s.Name)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Point = point
	res.PixelX, res.PixelY = point.ToPixels(t.report.ImageWidth, t.report.ImageHeight)
	res.Hit = Hit(res.PixelX, res.PixelY, s.BBox)
	return res
}

func loadBenchmark(dir string) ([]*dataset.Report, error) {
	f, err := os.Open(filepath.Join(dir, dataset.TestFilename))
	if err != nil {
		return nil, fmt.Errorf("evals: %w", err)
	}
	defer f.Close()

	var reports []*dataset.Report
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<24)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var r dataset.Report
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("evals: parse %s: %w", dataset.TestFilename, err)
		}
		reports = append(reports, &r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("evals: %w", err)
	}
	return reports, nil
}
