package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/catalog"
	"github.com/alnah/go-designstudio/internal/config"
)

// Default catalog locations under config.DataDir().
const (
	catalogFileName = "catalog.yaml"
	catalogDBName   = "catalog.db"
	blobDirName     = "blobs"
)

// newLogger builds the stderr text logger.
// --verbose shows debug records, --quiet only errors.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves configuration.
// Priority: --config > DESIGNSTUDIO_CONFIG > built-in defaults; env values
// then override file values.
func loadConfig(f commonFlags, logger *slog.Logger) (*config.Config, error) {
	warnUnknownEnvVars(logger)
	env := loadEnvConfig()

	path := f.config
	if path == "" {
		path = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		logger.Debug("config loaded", "path", path)
	}

	applyEnvConfig(env, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup builds the logger and config shared by every command.
func setup(env *Environment, f commonFlags) (*config.Config, *slog.Logger, error) {
	logger := newLogger(env.Stderr, f)
	cfg, err := loadConfig(f, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// applyTimeoutFlag validates and applies a --timeout value.
func applyTimeoutFlag(cfg *config.Config, timeout string) error {
	if timeout == "" {
		return nil
	}
	d, err := time.ParseDuration(timeout)
	if err != nil || d <= 0 {
		return fmt.Errorf("%w: --timeout %q must be a positive duration", errUsage, timeout)
	}
	cfg.Render.Timeout = d.String()
	return nil
}

// studioOptions maps the render section onto library options.
func studioOptions(cfg *config.Config, logger *slog.Logger, cat *catalog.Catalog) []designstudio.Option {
	opts := []designstudio.Option{
		designstudio.WithLogger(logger),
		designstudio.WithAssetPath(cfg.Assets.BasePath),
	}
	if cat != nil {
		opts = append(opts, designstudio.WithCatalog(cat))
	}
	if d := config.Duration(cfg.Render.Timeout, 0); d > 0 {
		opts = append(opts, designstudio.WithTimeout(d))
	}
	if d := config.Duration(cfg.Render.ReadyTimeout, 0); d > 0 && d < time.Second {
		opts = append(opts, designstudio.WithReadyTimeout(d))
	}
	if cfg.Render.SettleDelay != "" {
		opts = append(opts, designstudio.WithSettleDelay(config.Duration(cfg.Render.SettleDelay, 0)))
	}
	if s := cfg.Render.Scale; s >= 1 && s <= 4 {
		opts = append(opts, designstudio.WithScale(s))
	}
	return opts
}

// openCatalog opens the configured asset catalog. The returned close
// function releases store connections.
func openCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, func() error, error) {
	noop := func() error { return nil }
	opts := []catalog.Option{catalog.WithLogger(logger)}

	dataPath := func(configured, name string) string {
		if configured != "" {
			return configured
		}
		return filepath.Join(config.DataDir(), name)
	}
	fileBlobs := func() (*catalog.FileBlobStore, error) {
		return catalog.NewFileBlobStore(dataPath(cfg.Catalog.BlobDir, blobDirName))
	}

	switch cfg.Catalog.Store {
	case config.StoreMemory:
		cat, err := catalog.Open(ctx, catalog.NewMemoryStore(), catalog.DataBlobStore{}, opts...)
		return cat, noop, err

	case config.StoreRedis:
		// Blobs travel inside the catalog as data: URIs so every host
		// sharing the key can load them.
		client := redis.NewClient(&redis.Options{Addr: cfg.Catalog.RedisAddr})
		cat, err := catalog.Open(ctx, catalog.NewRedisStore(client, cfg.Catalog.RedisKey), catalog.DataBlobStore{}, opts...)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return cat, client.Close, nil

	case config.StoreSQLite:
		path := dataPath(cfg.Catalog.Path, catalogDBName)
		if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
			return nil, noop, fmt.Errorf("creating catalog directory: %w", err)
		}
		db, err := catalog.OpenSQLite(path)
		if err != nil {
			return nil, noop, err
		}
		blobs, err := fileBlobs()
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		store, err := catalog.NewSQLiteStore(ctx, db, cfg.Catalog.RedisKey)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		cat, err := catalog.Open(ctx, store, blobs, opts...)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return cat, db.Close, nil

	default:
		blobs, err := fileBlobs()
		if err != nil {
			return nil, noop, err
		}
		store := catalog.NewFileStore(dataPath(cfg.Catalog.Path, catalogFileName))
		cat, err := catalog.Open(ctx, store, blobs, opts...)
		return cat, noop, err
	}
}

// resolveFormat picks the format id from the flag, then the config.
func resolveFormat(flagFormat string, cfg *config.Config, formats []designstudio.Format) (designstudio.Format, error) {
	id := flagFormat
	if id == "" {
		id = cfg.Format
	}
	if id == "" {
		return designstudio.Format{}, fmt.Errorf("%w: pass --format or set format in the config", designstudio.ErrNoFormat)
	}
	return designstudio.FindFormat(formats, id)
}
