package axground

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9000"
browser:
  memory_limit: 536870912
  recycle_interval: 1h
capture:
  width: 1920
  height: 1080
  settle: 500ms
  urls:
    - https://example.com
    - https://example.org/pricing
pipeline:
  min_visible_area: 100
  occlusion_ratio: 0.6
  state_pruning: true
dataset:
  root: /tmp/pages
eval:
  provider: claude
  model: test-model
  workers: 8
upload:
  bucket: my-bucket
  prefix: benchmarks/v1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Browser.MemoryLimit != 512<<20 || cfg.Browser.RecycleInterval != time.Hour {
		t.Errorf("browser = %+v", cfg.Browser)
	}
	if cfg.Capture.Width != 1920 || cfg.Capture.Settle != 500*time.Millisecond {
		t.Errorf("capture = %+v", cfg.Capture)
	}
	if len(cfg.Capture.URLs) != 2 {
		t.Errorf("urls = %v", cfg.Capture.URLs)
	}
	if cfg.Pipeline.MinVisibleArea != 100 || !cfg.Pipeline.StatePruning {
		t.Errorf("pipeline = %+v", cfg.Pipeline)
	}
	if cfg.Dataset.Root != "/tmp/pages" {
		t.Errorf("dataset root = %q", cfg.Dataset.Root)
	}
	// Unset dataset fields still get defaults.
	if cfg.Dataset.Benchmark != "data/benchmark" {
		t.Errorf("benchmark = %q", cfg.Dataset.Benchmark)
	}
	if cfg.Eval.Provider != "claude" || cfg.Eval.Workers != 8 {
		t.Errorf("eval = %+v", cfg.Eval)
	}
	if cfg.Upload.Bucket != "my-bucket" {
		t.Errorf("upload = %+v", cfg.Upload)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Addr != ":8122" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Capture.Width != 1280 || cfg.Capture.Height != 720 {
		t.Errorf("capture = %+v", cfg.Capture)
	}
	if cfg.Pipeline.MinVisibleArea != 25 || cfg.Pipeline.OcclusionRatio != 0.5 {
		t.Errorf("pipeline = %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.StatePruning {
		t.Error("state pruning should default off")
	}
	if cfg.Eval.Provider != "openai" || cfg.Eval.Workers != 4 {
		t.Errorf("eval = %+v", cfg.Eval)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
