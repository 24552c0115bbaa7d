package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/ripple/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "ripple.yaml"

	// DefaultAddr is the default server listen address.
	DefaultAddr = ":8080"

	// DefaultPagesDir is the default directory of YAML page trees.
	DefaultPagesDir = "pages"

	// DefaultMetricsPath is the default Prometheus scrape path.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "ripple"
)

// Config represents the complete ripple.yaml configuration.
type Config struct {
	// Server contains HTTP and live session settings.
	Server ServerConfig `yaml:"server"`

	// Render contains string renderer settings.
	Render RenderConfig `yaml:"render"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `yaml:"tracing"`

	// Export contains static export settings.
	Export ExportConfig `yaml:"export"`

	// Log contains logger settings.
	Log LogConfig `yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`

	// ReadTimeout bounds reading a request, including the body.
	ReadTimeout time.Duration `yaml:"readTimeout"`

	// WriteTimeout bounds writing a non-live response.
	WriteTimeout time.Duration `yaml:"writeTimeout"`

	// PagesDir is the directory of YAML page trees served under /pages.
	PagesDir string `yaml:"pagesDir"`

	// LiveWriteBuffer is the number of frames queued per live session
	// before updates block.
	LiveWriteBuffer int `yaml:"liveWriteBuffer"`
}

// RenderConfig contains string renderer settings.
type RenderConfig struct {
	// Pretty enables indented output.
	Pretty bool `yaml:"pretty"`

	// Indent is the indentation unit used when Pretty is set.
	Indent string `yaml:"indent"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled mounts the scrape endpoint.
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every series.
	Namespace string `yaml:"namespace"`

	// Path is the scrape endpoint path.
	Path string `yaml:"path"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// TracerName is the instrumentation name passed to the tracer provider.
	TracerName string `yaml:"tracerName"`
}

// ExportConfig contains static export settings.
type ExportConfig struct {
	// Dir is the output directory for the directory publisher.
	Dir string `yaml:"dir"`

	// Bucket is the S3 bucket for the object storage publisher.
	Bucket string `yaml:"bucket"`

	// Prefix is prepended to every object key.
	Prefix string `yaml:"prefix"`

	// Region is the AWS region of the bucket.
	Region string `yaml:"region"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `yaml:"endpoint"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// SlogLevel returns the configured level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for ripple.yaml in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				Wrap(err)
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithLocationFromError(path, err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid YAML").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("E101").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// Resolve returns p relative to the config file's directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.configPath == "" {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	// Server
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.PagesDir == "" {
		c.Server.PagesDir = DefaultPagesDir
	}
	if c.Server.LiveWriteBuffer == 0 {
		c.Server.LiveWriteBuffer = 16
	}

	// Render
	if c.Render.Indent == "" {
		c.Render.Indent = "  "
	}

	// Metrics
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	// Tracing
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "github.com/vango-dev/ripple"
	}

	// Export
	if c.Export.Dir == "" {
		c.Export.Dir = "dist"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		problems = append(problems, "server timeouts must not be negative")
	}
	if c.Server.LiveWriteBuffer < 0 {
		problems = append(problems, "server.liveWriteBuffer must not be negative")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, fmt.Sprintf("metrics.path %q must start with /", c.Metrics.Path))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not a level", c.Log.Level))
	}
	if c.Export.Bucket != "" && c.Export.Region == "" && c.Export.Endpoint == "" {
		problems = append(problems, "export.bucket needs export.region or export.endpoint")
	}

	if len(problems) > 0 {
		return errors.New("E101").WithDetail(strings.Join(problems, "; "))
	}
	return nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing ripple.yaml, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
