// Package upload pushes packaged benchmarks to Google Cloud Storage so
// training and evaluation jobs can pull them from one place.
package upload

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Config configures an uploader.
type Config struct {
	Bucket string
	// Prefix is prepended to every object name.
	Prefix string
	// CredentialsFile is a service account key path. Empty = application
	// default credentials.
	CredentialsFile string

	Logger *slog.Logger
}

// Uploader copies local files into a GCS bucket.
type Uploader struct {
	cfg    Config
	client *storage.Client
}

// New creates an uploader. Close it when done.
func New(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("upload: bucket is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); err != nil {
			return nil, fmt.Errorf("upload: credentials file: %w", err)
		}
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("upload: storage client: %w", err)
	}
	return &Uploader{cfg: cfg, client: client}, nil
}

// UploadFile copies one local file to the object name under the prefix.
func (u *Uploader) UploadFile(ctx context.Context, localPath, objectName string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("upload: open %s: %w", localPath, err)
	}
	defer f.Close()

	name := ObjectName(u.cfg.Prefix, objectName)
	w := u.client.Bucket(u.cfg.Bucket).Object(name).NewWriter(ctx)
	w.ContentType = ContentType(localPath)

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("upload: copy %s to %s: %w", localPath, name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload: close %s: %w", name, err)
	}
	u.cfg.Logger.Info("uploaded object", "bucket", u.cfg.Bucket, "object", name)
	return nil
}

// UploadDir walks root and uploads every regular file, preserving paths
// relative to root in the object names. Dotfiles are skipped. It returns
// the number of files uploaded.
func (u *Uploader) UploadDir(ctx context.Context, root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if err := u.UploadFile(ctx, p, filepath.ToSlash(rel)); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// Close releases the storage client.
func (u *Uploader) Close() error { return u.client.Close() }

// ObjectName joins the prefix and a slash-separated relative name.
func ObjectName(prefix, name string) string {
	name = strings.TrimLeft(filepath.ToSlash(name), "/")
	if prefix == "" {
		return name
	}
	return path.Join(strings.Trim(prefix, "/"), name)
}

// ContentType guesses a MIME type from the file extension, defaulting to
// application/octet-stream.
func ContentType(p string) string {
	if t := mime.TypeByExtension(filepath.Ext(p)); t != "" {
		return t
	}
	return "application/octet-stream"
}
