package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-designstudio/internal/fileutil"
	"github.com/alnah/go-designstudio/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxURLLength      = 2048 // Browser limit
	MaxFormatIDLength = 64   // "youtube-thumbnail"
	MaxModelLength    = 100  // "gpt-4o-2024-08-06"
	MaxKeyLength      = 256  // Redis key
	MaxAddrLength     = 255  // host:port
)

// Catalog store kinds.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Image encodings accepted by export.encoding.
var validEncodings = map[string]bool{"png": true, "jpeg": true, "webp": true}

// Config holds all configuration for the studio.
type Config struct {
	Format  string        `yaml:"format"` // Default format id (empty = must choose)
	Assets  AssetsConfig  `yaml:"assets"`
	Catalog CatalogConfig `yaml:"catalog"`
	Render  RenderConfig  `yaml:"render"`
	Export  ExportConfig  `yaml:"export"`
	Model   ModelConfig   `yaml:"model"`
	Server  ServerConfig  `yaml:"server"`
}

// AssetsConfig defines custom template/style/format overrides.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// CatalogConfig selects where uploaded assets and their catalog live.
type CatalogConfig struct {
	Store     string `yaml:"store"`     // file, redis, sqlite, memory (default: file)
	Path      string `yaml:"path"`      // Catalog file (file) or database file (sqlite)
	BlobDir   string `yaml:"blobDir"`   // Directory holding uploaded bytes
	RedisAddr string `yaml:"redisAddr"` // host:port (redis)
	RedisKey  string `yaml:"redisKey"`  // Key holding the catalog (redis)
}

// RenderConfig tunes the isolated render surface.
type RenderConfig struct {
	Timeout      string  `yaml:"timeout"`      // Page load/capture budget (default: 30s)
	ReadyTimeout string  `yaml:"readyTimeout"` // Max wait for a ready ack (default: 750ms, < 1s)
	SettleDelay  string  `yaml:"settleDelay"`  // Pause after ack before capture (default: 50ms)
	Scale        float64 `yaml:"scale"`        // Supersampling factor (default: 2)
	Workers      int     `yaml:"workers"`      // Renderer pool size (0 = auto)
}

// ExportConfig defines export defaults.
type ExportConfig struct {
	Encoding  string `yaml:"encoding"`  // png, jpeg, webp (default: png)
	Quality   int    `yaml:"quality"`   // 1-100, lossy encodings only (default: 92)
	OutputDir string `yaml:"outputDir"` // Empty = current directory
}

// ModelConfig defines the model-completion boundary.
type ModelConfig struct {
	Name              string  `yaml:"name"`              // default: gpt-4o
	BaseURL           string  `yaml:"baseURL"`           // Empty = provider default
	Temperature       float64 `yaml:"temperature"`       // 0-2 (default: 0.7)
	MaxTokens         int     `yaml:"maxTokens"`         // default: 4000
	RequestsPerSecond float64 `yaml:"requestsPerSecond"` // default: 1
	Burst             int     `yaml:"burst"`             // default: 2
}

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	Addr string `yaml:"addr"` // default: 127.0.0.1:8080
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"format", c.Format, MaxFormatIDLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"catalog.path", c.Catalog.Path, MaxPathLength},
		{"catalog.blobDir", c.Catalog.BlobDir, MaxPathLength},
		{"catalog.redisAddr", c.Catalog.RedisAddr, MaxAddrLength},
		{"catalog.redisKey", c.Catalog.RedisKey, MaxKeyLength},
		{"export.outputDir", c.Export.OutputDir, MaxPathLength},
		{"model.name", c.Model.Name, MaxModelLength},
		{"model.baseURL", c.Model.BaseURL, MaxURLLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	switch c.Catalog.Store {
	case "", StoreFile, StoreRedis, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("%w: catalog.store %q (must be file, redis, sqlite, or memory)", ErrInvalidValue, c.Catalog.Store)
	}

	for _, d := range []struct{ field, value string }{
		{"render.timeout", c.Render.Timeout},
		{"render.readyTimeout", c.Render.ReadyTimeout},
		{"render.settleDelay", c.Render.SettleDelay},
	} {
		if d.value == "" {
			continue
		}
		if v, err := time.ParseDuration(d.value); err != nil || v < 0 {
			return fmt.Errorf("%w: %s %q is not a valid duration", ErrInvalidValue, d.field, d.value)
		}
	}
	if rt, _ := time.ParseDuration(c.Render.ReadyTimeout); rt >= time.Second {
		return fmt.Errorf("%w: render.readyTimeout must stay under 1s, got %s", ErrInvalidValue, c.Render.ReadyTimeout)
	}

	if c.Render.Scale != 0 && (c.Render.Scale < 1 || c.Render.Scale > 4) {
		return fmt.Errorf("%w: render.scale must be between 1 and 4, got %.2f", ErrInvalidValue, c.Render.Scale)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: render.workers must not be negative", ErrInvalidValue)
	}

	if c.Export.Encoding != "" && !validEncodings[strings.ToLower(c.Export.Encoding)] {
		return fmt.Errorf("%w: export.encoding %q (must be png, jpeg, or webp)", ErrInvalidValue, c.Export.Encoding)
	}
	if c.Export.Quality != 0 && (c.Export.Quality < 1 || c.Export.Quality > 100) {
		return fmt.Errorf("%w: export.quality must be between 1 and 100, got %d", ErrInvalidValue, c.Export.Quality)
	}

	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("%w: model.temperature must be between 0 and 2, got %.2f", ErrInvalidValue, c.Model.Temperature)
	}
	if c.Model.MaxTokens < 0 || c.Model.RequestsPerSecond < 0 || c.Model.Burst < 0 {
		return fmt.Errorf("%w: model limits must not be negative", ErrInvalidValue)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{Store: StoreFile, RedisKey: "designstudio:assets"},
		Render: RenderConfig{
			Timeout:      "30s",
			ReadyTimeout: "750ms",
			SettleDelay:  "50ms",
			Scale:        2,
		},
		Export: ExportConfig{Encoding: "png", Quality: 92},
		Model: ModelConfig{
			Name:              "gpt-4o",
			Temperature:       0.7,
			MaxTokens:         4000,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// ApplyDefaults fills zero-valued fields from DefaultConfig.
// A zero value in a config file therefore means "use the default".
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	setString(&c.Catalog.Store, d.Catalog.Store)
	setString(&c.Catalog.RedisKey, d.Catalog.RedisKey)
	setString(&c.Render.Timeout, d.Render.Timeout)
	setString(&c.Render.ReadyTimeout, d.Render.ReadyTimeout)
	setString(&c.Render.SettleDelay, d.Render.SettleDelay)
	setString(&c.Export.Encoding, d.Export.Encoding)
	setString(&c.Model.Name, d.Model.Name)
	setString(&c.Server.Addr, d.Server.Addr)
	if c.Render.Scale == 0 {
		c.Render.Scale = d.Render.Scale
	}
	if c.Export.Quality == 0 {
		c.Export.Quality = d.Export.Quality
	}
	if c.Model.Temperature == 0 {
		c.Model.Temperature = d.Model.Temperature
	}
	if c.Model.MaxTokens == 0 {
		c.Model.MaxTokens = d.Model.MaxTokens
	}
	if c.Model.RequestsPerSecond == 0 {
		c.Model.RequestsPerSecond = d.Model.RequestsPerSecond
	}
	if c.Model.Burst == 0 {
		c.Model.Burst = d.Model.Burst
	}
}

func setString(field *string, fallback string) {
	if *field == "" {
		*field = fallback
	}
}

// Duration parses a validated duration field, returning fallback when empty.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file take their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-designstudio/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-designstudio", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// DataDir returns the directory holding the catalog and uploaded blobs
// when the config leaves their paths empty.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "go-designstudio")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "go-designstudio")
	}
	return filepath.Join(os.TempDir(), "go-designstudio")
}
