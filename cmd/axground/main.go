// Command axground is the grounding dataset toolchain: capture pages
// through Chrome, filter them into clickable samples, package benchmarks,
// evaluate grounding models and upload the results.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/axground"
	"github.com/hazyhaar/axground/axtree"
	"github.com/hazyhaar/axground/collector"
	"github.com/hazyhaar/axground/internal/browser"
	"github.com/hazyhaar/axground/dataset"
	"github.com/hazyhaar/axground/evals"
	"github.com/hazyhaar/axground/imaging"
	"github.com/hazyhaar/axground/upload"
)

const version = "0.3.0"

var (
	configPath string
	logLevel   string

	cfg    *axground.Config
	logger *slog.Logger
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "axground",
		Short:   "Grounding dataset toolchain for browser UIs",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		serveCmd(),
		collectCmd(),
		filterCmd(),
		cropCmd(),
		buildCmd(),
		cleanCmd(),
		evalCmd(),
		uploadCmd(),
		mcpCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("bad log level %q: %w", logLevel, err)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if configPath == "" {
		cfg = axground.DefaultConfig()
		return nil
	}
	var err error
	cfg, err = axground.LoadConfigFile(configPath)
	return err
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func pipelineConfig() axtree.Config {
	return axtree.Config{
		MinVisibleArea: cfg.Pipeline.MinVisibleArea,
		OcclusionRatio: cfg.Pipeline.OcclusionRatio,
		StatePruning:   cfg.Pipeline.StatePruning,
		Logger:         logger,
	}
}

func startBrowser(ctx context.Context) (*browser.Manager, *collector.Collector, error) {
	mgr := browser.NewManager(browser.Config{
		RemoteURL:       cfg.Browser.Remote,
		MemoryLimit:     cfg.Browser.MemoryLimit,
		RecycleInterval: cfg.Browser.RecycleInterval,
		Logger:          logger,
	})
	if _, err := mgr.Start(ctx); err != nil {
		return nil, nil, err
	}
	c := collector.New(collector.Config{
		Width:    cfg.Capture.Width,
		Height:   cfg.Capture.Height,
		Settle:   cfg.Capture.Settle,
		Pipeline: pipelineConfig(),
		Logger:   logger,
	}, mgr)
	return mgr, c, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve live captures over HTTP (/health, /layout, /screenshot, /samples)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			mgr, c, err := startBrowser(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			return collector.NewServer(cfg.Server.Addr, c, logger).Start(ctx)
		},
	}
}

func collectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collect [url...]",
		Short: "Capture pages into the dataset root (uses configured URLs when none given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := args
			if len(urls) == 0 {
				urls = cfg.Capture.URLs
			}
			if len(urls) == 0 {
				return fmt.Errorf("no URLs: pass them as arguments or set capture.urls in the config")
			}

			ctx, cancel := signalContext()
			defer cancel()

			mgr, c, err := startBrowser(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			manifest, err := dataset.OpenManifest(cfg.Dataset.Manifest)
			if err != nil {
				return err
			}
			defer manifest.Close()
			logger.Info("starting capture run", "run_id", manifest.RunID(), "urls", len(urls))

			count, err := c.CaptureAll(ctx, urls, cfg.Dataset.Root, manifest)
			if err != nil {
				return err
			}
			summary, serr := manifest.Summary(ctx)
			if serr == nil {
				logger.Info("capture run finished", "pages", count, "by_status", summary.Pages)
			}
			return nil
		},
	}
}

func filterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter [dir...]",
		Short: "Run the grounding pipeline over page directories (default: all under the dataset root)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := args
			if len(dirs) == 0 {
				var err error
				dirs, err = datasetPageDirs(cfg.Dataset.Root)
				if err != nil {
					return err
				}
			}
			pipe := axtree.New(pipelineConfig())
			for _, dir := range dirs {
				report, err := dataset.FilterDir(pipe, dir, dataset.CroppedScreenshotFilename)
				if err != nil {
					logger.Error("filter failed", "dir", dir, "error", err)
					continue
				}
				logger.Info("filtered page", "dir", dir, "samples", report.SampleCount)
			}
			return nil
		},
	}
}

func cropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crop",
		Short: "Crop page screenshots to the viewport box",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			box := imaging.Box{Width: cfg.Dataset.CropWidth, Height: cfg.Dataset.CropHeight}
			if box.Width <= 0 {
				box.Width = cfg.Capture.Width
			}
			if box.Height <= 0 {
				box.Height = cfg.Capture.Height
			}
			count, err := imaging.BatchCrop(cfg.Dataset.Root, box, logger)
			if err != nil {
				return err
			}
			logger.Info("cropped screenshots", "pages", count, "box", box)
			return nil
		},
	}
}

func buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Package filtered pages into a benchmark (images/ + test.jsonl)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := dataset.BuildBenchmark(cfg.Dataset.Root, cfg.Dataset.Benchmark, logger)
			if err != nil {
				return err
			}
			logger.Info("benchmark built", "pages", count, "target", cfg.Dataset.Benchmark)
			return nil
		},
	}
}

func cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove page directories with zero samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := dataset.CleanEmpty(cfg.Dataset.Root)
			if err != nil {
				return err
			}
			logger.Info("cleaned dataset", "removed", len(removed))
			for _, page := range removed {
				logger.Debug("removed empty page", "page", page)
			}
			return nil
		},
	}
}

func evalCmd() *cobra.Command {
	var providerName, model, baseURL string
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score a grounding model against the benchmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if providerName == "" {
				providerName = cfg.Eval.Provider
			}
			if model == "" {
				model = cfg.Eval.Model
			}
			if baseURL == "" {
				baseURL = cfg.Eval.BaseURL
			}
			provider, err := evals.NewProvider(providerName, model, baseURL)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			summary, err := evals.Run(ctx, provider, cfg.Dataset.Benchmark, cfg.Eval.Results, evals.Config{
				Workers: cfg.Eval.Workers,
				Logger:  logger,
			})
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d/%d hits (%.1f%% accuracy, %d errors)\n",
				summary.Provider, summary.Hits, summary.Total, summary.Accuracy*100, summary.Errors)
			return nil
		},
	}
	cmd.Flags().StringVar(&providerName, "provider", "", "Model provider: claude, openai")
	cmd.Flags().StringVar(&model, "model", "", "Model override")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "OpenAI-compatible base URL for self-hosted models")
	return cmd
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Upload the benchmark directory to GCS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			u, err := upload.New(ctx, upload.Config{
				Bucket:          cfg.Upload.Bucket,
				Prefix:          cfg.Upload.Prefix,
				CredentialsFile: cfg.Upload.CredentialsFile,
				Logger:          logger,
			})
			if err != nil {
				return err
			}
			defer u.Close()

			count, err := u.UploadDir(ctx, cfg.Dataset.Benchmark)
			if err != nil {
				return err
			}
			logger.Info("upload finished", "files", count, "bucket", cfg.Upload.Bucket)
			return nil
		},
	}
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the dataset tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			srv := mcp.NewServer(&mcp.Implementation{Name: "axground", Version: version}, nil)
			tools := &dataset.MCPTools{
				Pipeline: axtree.New(pipelineConfig()),
				Logger:   logger,
			}
			tools.Register(srv)

			return srv.Run(ctx, &mcp.StdioTransport{})
		},
	}
}

func datasetPageDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
