package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const appDir = "cotiza"

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// PDF export settings
	Export ExportConfig `yaml:"export"`

	// Model-assisted translation
	Translation TranslationConfig `yaml:"translation"`

	// Values seeding every new quotation
	Defaults DefaultsConfig `yaml:"defaults"`

	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type ExportConfig struct {
	OutputDir     string        `yaml:"output_dir"`     // Directory for generated PDFs
	SettleDelay   time.Duration `yaml:"settle_delay"`   // Wait before rasterizing
	IdleThreshold time.Duration `yaml:"idle_threshold"` // Save first when the last save is older
	BaseWidth     int           `yaml:"base_width"`     // Print view width in pixels
	Scale         float64       `yaml:"scale"`
	JPEGQuality   int           `yaml:"jpeg_quality"`
	PageWidthMM   float64       `yaml:"page_width_mm"`
}

type TranslationConfig struct {
	Enabled bool          `yaml:"enabled"`
	APIURL  string        `yaml:"api_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type DefaultsConfig struct {
	Language    string `yaml:"language"`
	Currency    string `yaml:"currency"`
	CompanyName string `yaml:"company_name"`
	Signature   string `yaml:"signature"`
	PaymentInfo string `yaml:"payment_info"`
	Logo        string `yaml:"logo"` // URL, data URL or file path
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"` // debug, info, warn, error
}

// Dir returns ~/.config/cotiza
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", appDir)
	}
	return filepath.Join(homeDir, ".config", appDir)
}

// DefaultConfigPath returns ~/.config/cotiza/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := Dir()
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "cotiza.db"),
		},
		Export: ExportConfig{
			OutputDir:     filepath.Join(homeDir, "Documents", "Cotizaciones"),
			SettleDelay:   3500 * time.Millisecond,
			IdleThreshold: 10 * time.Second,
			BaseWidth:     794,
			Scale:         2,
			JPEGQuality:   98,
			PageWidthMM:   210,
		},
		Translation: TranslationConfig{
			Enabled: true,
			APIURL:  "https://openrouter.ai/api/v1/chat/completions",
			Model:   "google/gemini-2.0-flash-001",
			Timeout: 60 * time.Second,
		},
		Defaults: DefaultsConfig{
			Language: "Español",
			Currency: "USD",
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "cotiza.log"),
			Level: "info",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist.
// A .env file next to the config is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := LoadEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// LoadEnv reads KEY=value pairs from path without overriding variables
// already set. A missing file is not an error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (database, logs, exports)
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Database.Path), c.Export.OutputDir}
	if c.Log.Path != "" {
		dirs = append(dirs, filepath.Dir(c.Log.Path))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
