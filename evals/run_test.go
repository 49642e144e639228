package evals

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/axground/axtree"
	"github.com/hazyhaar/axground/dataset"
)

// stubProvider answers from a fixed table keyed by instruction.
type stubProvider struct {
	answers map[string]Point
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Locate(_ context.Context, _ []byte, instruction string) (Point, error) {
	p, ok := s.answers[instruction]
	if !ok {
		return Point{}, fmt.Errorf("no answer for %q", instruction)
	}
	return p, nil
}

func writeBenchmark(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, dataset.ImagesDirname), 0o755); err != nil {
		t.Fatal(err)
	}
	report := &dataset.Report{
		ImageFilename: filepath.Join(dataset.ImagesDirname, "page.png"),
		ImageID:       "page",
		ImageWidth:    1000,
		ImageHeight:   1000,
		SampleCount:   3,
		TestSamples: []axtree.Sample{
			{ID: "node_1", Category: axtree.RoleButton, Name: "Submit", BBox: [4]float64{100, 100, 300, 200}},
			{ID: "node_2", Category: axtree.RoleLink, Name: "Help", BBox: [4]float64{500, 500, 600, 550}},
			{ID: "node_3", Category: axtree.RoleCheckbox, Name: "Agree", BBox: [4]float64{50, 700, 80, 730}},
		},
	}
	if err := os.WriteFile(filepath.Join(dir, report.ImageFilename), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	line, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, dataset.TestFilename), append(line, '\n'), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeBenchmark(t, dir)

	// With a 1000x1000 image the normalized grid maps 1:1 to pixels.
	provider := &stubProvider{answers: map[string]Point{
		"Submit": {X: 200, Y: 150}, // inside bbox
		"Help":   {X: 10, Y: 10},   // miss
		// "Agree" missing: provider error
	}}

	resultsPath := filepath.Join(t.TempDir(), "results.jsonl")
	summary, err := Run(context.Background(), provider, dir, resultsPath, Config{Workers: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Total != 3 || summary.Hits != 1 || summary.Errors != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Accuracy != 1.0/3.0 {
		t.Errorf("accuracy = %v", summary.Accuracy)
	}
	if summary.Provider != "stub" {
		t.Errorf("provider = %q", summary.Provider)
	}

	f, err := os.Open(resultsPath)
	if err != nil {
		t.Fatalf("open results: %v", err)
	}
	defer f.Close()

	byID := map[string]Result{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r Result
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("bad result line: %v", err)
		}
		byID[r.SampleID] = r
	}
	if len(byID) != 3 {
		t.Fatalf("results = %d, want 3", len(byID))
	}
	if !byID["node_1"].Hit {
		t.Error("node_1 should hit")
	}
	if byID["node_1"].PixelX != 200 || byID["node_1"].PixelY != 150 {
		t.Errorf("node_1 pixels = (%v, %v)", byID["node_1"].PixelX, byID["node_1"].PixelY)
	}
	if byID["node_2"].Hit {
		t.Error("node_2 should miss")
	}
	if byID["node_3"].Error == "" {
		t.Error("node_3 should carry the provider error")
	}
	if byID["node_3"].Hit {
		t.Error("errored sample must not count as a hit")
	}
}

func TestRunMissingBenchmark(t *testing.T) {
	_, err := Run(context.Background(), &stubProvider{}, t.TempDir(),
		filepath.Join(t.TempDir(), "results.jsonl"), Config{})
	if err == nil {
		t.Fatal("expected error for missing test.jsonl")
	}
}
