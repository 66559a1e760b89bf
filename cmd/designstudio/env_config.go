package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-designstudio/internal/config"
)

// envPrefix marks variables read by the CLI.
const envPrefix = "DESIGNSTUDIO_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // DESIGNSTUDIO_CONFIG: config file path
	Format     string        // DESIGNSTUDIO_FORMAT: default format id
	Timeout    time.Duration // DESIGNSTUDIO_TIMEOUT: render and model budget

	// Tier 2 - Rendering and output
	Scale     float64 // DESIGNSTUDIO_SCALE: supersampling factor
	Workers   int     // DESIGNSTUDIO_WORKERS: renderer pool size
	OutputDir string  // DESIGNSTUDIO_OUTPUT_DIR: export directory
	AssetPath string  // DESIGNSTUDIO_ASSET_PATH: template/format overrides

	// Tier 3 - Catalog, model, server
	Store        string // DESIGNSTUDIO_STORE: file, redis, sqlite, memory
	CatalogPath  string // DESIGNSTUDIO_CATALOG_PATH: catalog or database file
	BlobDir      string // DESIGNSTUDIO_BLOB_DIR: uploaded bytes directory
	RedisAddr    string // DESIGNSTUDIO_REDIS_ADDR: host:port
	Model        string // DESIGNSTUDIO_MODEL: model name
	ModelBaseURL string // DESIGNSTUDIO_MODEL_BASE_URL: compatible gateway
	Addr         string // DESIGNSTUDIO_ADDR: server listen address
}

// knownEnvVars lists all recognized DESIGNSTUDIO_* variables.
var knownEnvVars = map[string]bool{
	"DESIGNSTUDIO_CONFIG":         true,
	"DESIGNSTUDIO_FORMAT":         true,
	"DESIGNSTUDIO_TIMEOUT":        true,
	"DESIGNSTUDIO_SCALE":          true,
	"DESIGNSTUDIO_WORKERS":        true,
	"DESIGNSTUDIO_OUTPUT_DIR":     true,
	"DESIGNSTUDIO_ASSET_PATH":     true,
	"DESIGNSTUDIO_STORE":          true,
	"DESIGNSTUDIO_CATALOG_PATH":   true,
	"DESIGNSTUDIO_BLOB_DIR":       true,
	"DESIGNSTUDIO_REDIS_ADDR":     true,
	"DESIGNSTUDIO_MODEL":          true,
	"DESIGNSTUDIO_MODEL_BASE_URL": true,
	"DESIGNSTUDIO_ADDR":           true,
	"DESIGNSTUDIO_CONTAINER":      true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:   os.Getenv("DESIGNSTUDIO_CONFIG"),
		Format:       os.Getenv("DESIGNSTUDIO_FORMAT"),
		OutputDir:    os.Getenv("DESIGNSTUDIO_OUTPUT_DIR"),
		AssetPath:    os.Getenv("DESIGNSTUDIO_ASSET_PATH"),
		Store:        os.Getenv("DESIGNSTUDIO_STORE"),
		CatalogPath:  os.Getenv("DESIGNSTUDIO_CATALOG_PATH"),
		BlobDir:      os.Getenv("DESIGNSTUDIO_BLOB_DIR"),
		RedisAddr:    os.Getenv("DESIGNSTUDIO_REDIS_ADDR"),
		Model:        os.Getenv("DESIGNSTUDIO_MODEL"),
		ModelBaseURL: os.Getenv("DESIGNSTUDIO_MODEL_BASE_URL"),
		Addr:         os.Getenv("DESIGNSTUDIO_ADDR"),
	}

	if timeout := os.Getenv("DESIGNSTUDIO_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if scale := os.Getenv("DESIGNSTUDIO_SCALE"); scale != "" {
		if s, err := strconv.ParseFloat(scale, 64); err == nil && s > 0 {
			cfg.Scale = s
		}
	}
	if workers := os.Getenv("DESIGNSTUDIO_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs unrecognized DESIGNSTUDIO_* variables.
// Helps catch typos like DESIGNSTUDIO_FROMAT.
func warnUnknownEnvVars(logger *slog.Logger) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig overrides config values with those set in the environment.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIf(&cfg.Format, env.Format)
	setIf(&cfg.Export.OutputDir, env.OutputDir)
	setIf(&cfg.Assets.BasePath, env.AssetPath)
	setIf(&cfg.Catalog.Store, env.Store)
	setIf(&cfg.Catalog.Path, env.CatalogPath)
	setIf(&cfg.Catalog.BlobDir, env.BlobDir)
	setIf(&cfg.Catalog.RedisAddr, env.RedisAddr)
	setIf(&cfg.Model.Name, env.Model)
	setIf(&cfg.Model.BaseURL, env.ModelBaseURL)
	setIf(&cfg.Server.Addr, env.Addr)

	if env.Timeout > 0 {
		cfg.Render.Timeout = env.Timeout.String()
	}
	if env.Scale > 0 {
		cfg.Render.Scale = env.Scale
	}
	if env.Workers > 0 {
		cfg.Render.Workers = env.Workers
	}
}

func setIf(field *string, value string) {
	if value != "" {
		*field = value
	}
}
