package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Media       MediaConfig   `toml:"media"`
	Search      SearchConfig  `toml:"search"`
	Logging     LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig locates the persisted document and the media directories.
type StorageConfig struct {
	DataDir   string `toml:"data_dir"`   // Base data directory
	DataFile  string `toml:"data_file"`  // Persisted document path (default: <data_dir>/data.json)
	AudioDir  string `toml:"audio_dir"`  // Audio files (default: <data_dir>/audio)
	ImagesDir string `toml:"images_dir"` // Image files (default: <data_dir>/images)
}

// MediaConfig holds upload limits and processing parameters.
type MediaConfig struct {
	MaxAudioSize    int64  `toml:"max_audio_size"`    // Audio upload ceiling in bytes
	MaxImageSize    int64  `toml:"max_image_size"`    // Image upload ceiling in bytes
	ImageTargetSize int    `toml:"image_target_size"` // Longest image side after resize, in pixels
	JPEGQuality     int    `toml:"jpeg_quality"`      // JPEG encode quality (1-100)
	FFmpegPath      string `toml:"ffmpeg"`            // ffmpeg binary (default: resolved from PATH)
	FFprobePath     string `toml:"ffprobe"`           // ffprobe binary (default: resolved from PATH)
}

// SearchConfig contains the external image search provider settings.
type SearchConfig struct {
	APIURL     string `toml:"api_url"`    // Pixabay-compatible endpoint
	APIKey     string `toml:"api_key"`    // Provider API key (may be empty; search reports it in-band)
	PerPage    int    `toml:"per_page"`   // Results per page
	SafeSearch bool   `toml:"safesearch"` // Restrict results to safe content
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here; only user-facing settings
// belong in paraulins.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 5001,
			Host: "localhost",
		},
		Storage: StorageConfig{
			DataDir: "./data",
		},
		Media: MediaConfig{
			MaxAudioSize:    10 * 1024 * 1024,
			MaxImageSize:    5 * 1024 * 1024,
			ImageTargetSize: 240,
			JPEGQuality:     90,
			FFmpegPath:      "ffmpeg",
			FFprobePath:     "ffprobe",
		},
		Search: SearchConfig{
			APIURL:     "https://pixabay.com/api/",
			PerPage:    20,
			SafeSearch: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2
// -> ... -> env. Later files override earlier ones; env overrides all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	config.resolvePaths()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyFlagOverrides applies command-line overrides (highest priority).
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	config.resolvePaths()
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PARAULINS_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("PARAULINS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PARAULINS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if dir := os.Getenv("PARAULINS_DATA_DIR"); dir != "" {
		config.Storage.DataDir = dir
		// Derived paths follow the new base unless set explicitly.
		config.Storage.DataFile = ""
		config.Storage.AudioDir = ""
		config.Storage.ImagesDir = ""
	}
	if key := os.Getenv("PARAULINS_SEARCH_API_KEY"); key != "" {
		config.Search.APIKey = key
	}
	if level := os.Getenv("PARAULINS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("PARAULINS_LOG_OUTPUT"); output != "" {
		var outputs []string
		for _, part := range strings.Split(output, ",") {
			if part = strings.TrimSpace(part); part != "" {
				outputs = append(outputs, part)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// resolvePaths fills the derived storage paths that were not set explicitly.
func (c *Config) resolvePaths() {
	if c.Storage.DataFile == "" {
		c.Storage.DataFile = filepath.Join(c.Storage.DataDir, "data.json")
	}
	if c.Storage.AudioDir == "" {
		c.Storage.AudioDir = filepath.Join(c.Storage.DataDir, "audio")
	}
	if c.Storage.ImagesDir == "" {
		c.Storage.ImagesDir = filepath.Join(c.Storage.DataDir, "images")
	}
}

// Validate checks configuration consistency before startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Media.MaxAudioSize <= 0 {
		return fmt.Errorf("max_audio_size must be positive, got %d", c.Media.MaxAudioSize)
	}
	if c.Media.MaxImageSize <= 0 {
		return fmt.Errorf("max_image_size must be positive, got %d", c.Media.MaxImageSize)
	}
	if c.Media.ImageTargetSize <= 0 {
		return fmt.Errorf("image_target_size must be positive, got %d", c.Media.ImageTargetSize)
	}
	if c.Media.JPEGQuality < 1 || c.Media.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be within 1-100, got %d", c.Media.JPEGQuality)
	}
	return nil
}

// EnsureDirs creates the data directories if they do not exist.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Storage.DataDir, c.Storage.AudioDir, c.Storage.ImagesDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	return nil
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
