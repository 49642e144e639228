// Package axground holds the shared configuration of the grounding
// toolchain: one YAML file drives the collector, the capture server, the
// dataset pipeline, evaluation and upload.
package axground

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Browser  BrowserConfig  `yaml:"browser"`
	Capture  CaptureConfig  `yaml:"capture"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Eval     EvalConfig     `yaml:"eval"`
	Upload   UploadConfig   `yaml:"upload"`
}

// ServerConfig controls the capture HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Remote          string        `yaml:"remote"`
	MemoryLimit     int64         `yaml:"memory_limit"`
	RecycleInterval time.Duration `yaml:"recycle_interval"`
}

// CaptureConfig controls per-page capture behavior.
type CaptureConfig struct {
	Width  int           `yaml:"width"`
	Height int           `yaml:"height"`
	Settle time.Duration `yaml:"settle"`
	URLs   []string      `yaml:"urls"`
}

// PipelineConfig tunes the grounding pipeline.
type PipelineConfig struct {
	MinVisibleArea float64 `yaml:"min_visible_area"`
	OcclusionRatio float64 `yaml:"occlusion_ratio"`
	StatePruning   bool    `yaml:"state_pruning"`
}

// DatasetConfig names the dataset locations.
type DatasetConfig struct {
	Root      string `yaml:"root"`
	Benchmark string `yaml:"benchmark"`
	Manifest  string `yaml:"manifest"`
	// CropWidth/CropHeight bound the screenshot crop. Zero = capture size.
	CropWidth  int `yaml:"crop_width"`
	CropHeight int `yaml:"crop_height"`
}

// EvalConfig selects the model under evaluation.
type EvalConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Workers  int    `yaml:"workers"`
	Results  string `yaml:"results"`
}

// UploadConfig targets the destination bucket.
type UploadConfig struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// LoadConfigFile reads a YAML configuration file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("axground: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8122"
	}
	if c.Browser.MemoryLimit <= 0 {
		c.Browser.MemoryLimit = 1 << 30
	}
	if c.Browser.RecycleInterval <= 0 {
		c.Browser.RecycleInterval = 4 * time.Hour
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = 1280
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = 720
	}
	if c.Capture.Settle <= 0 {
		c.Capture.Settle = 2 * time.Second
	}
	if c.Pipeline.MinVisibleArea <= 0 {
		c.Pipeline.MinVisibleArea = 25
	}
	if c.Pipeline.OcclusionRatio <= 0 {
		c.Pipeline.OcclusionRatio = 0.5
	}
	if c.Dataset.Root == "" {
		c.Dataset.Root = "data/pages"
	}
	if c.Dataset.Benchmark == "" {
		c.Dataset.Benchmark = "data/benchmark"
	}
	if c.Dataset.Manifest == "" {
		c.Dataset.Manifest = "data/manifest.db"
	}
	if c.Eval.Provider == "" {
		c.Eval.Provider = "openai"
	}
	if c.Eval.Workers <= 0 {
		c.Eval.Workers = 4
	}
	if c.Eval.Results == "" {
		c.Eval.Results = "data/results.jsonl"
	}
}
