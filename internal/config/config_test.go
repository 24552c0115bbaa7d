package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vango-dev/ripple/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Server.PagesDir != DefaultPagesDir {
		t.Errorf("Server.PagesDir = %q, want %q", cfg.Server.PagesDir, DefaultPagesDir)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
	if cfg.Render.Indent != "  " {
		t.Errorf("Render.Indent = %q", cfg.Render.Indent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	var re *errors.RippleError
	if !stderrors.As(err, &re) || re.Code != "E100" {
		t.Fatalf("missing config error = %v, want E100", err)
	}

	content := `server:
  addr: ":9000"
  readTimeout: 3s
  pagesDir: site
render:
  pretty: true
metrics:
  enabled: true
export:
  bucket: pages
  region: eu-west-1
log:
  level: debug
  format: json
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Server.ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 10*time.Second {
		t.Errorf("Server.WriteTimeout default = %v", cfg.Server.WriteTimeout)
	}
	if !cfg.Render.Pretty || !cfg.Metrics.Enabled {
		t.Error("booleans not loaded")
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v", cfg.Log.SlogLevel())
	}
	if got, want := cfg.Resolve(cfg.Server.PagesDir), filepath.Join(tmpDir, "site"); got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("server:\n  addr: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	var re *errors.RippleError
	if !stderrors.As(err, &re) || re.Code != "E101" {
		t.Fatalf("error = %v, want E101", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative timeout", func(c *Config) { c.Server.ReadTimeout = -time.Second }, "timeouts"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bucket without region", func(c *Config) { c.Export.Bucket = "b" }, "export.bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.(*errors.RippleError).Detail, tt.want) {
				t.Errorf("Detail = %q, want mention of %q", err.(*errors.RippleError).Detail, tt.want)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	cfg := New()
	cfg.Server.Addr = "127.0.0.1:7000"
	cfg.Server.ReadTimeout = 2500 * time.Millisecond
	cfg.Export.Prefix = "site/"

	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q", cfg.Path())
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
}
