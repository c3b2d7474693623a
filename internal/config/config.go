// Package config loads the export service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-mdexport/internal/fileutil"
	"github.com/alnah/go-mdexport/internal/hints"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrConfigTooLarge = errors.New("config file exceeds maximum size")
	ErrInvalidEngine  = errors.New("pdf.engine must be auto, chrome, or builtin")
	ErrInvalidTimeout = errors.New("pdf.timeoutSeconds must be positive")
	ErrInvalidRoot    = errors.New("server.root is not a directory")
)

// maxConfigSize bounds config input to prevent memory exhaustion.
const maxConfigSize = 1 << 20 // 1MB

// configDirName is the per-user config directory under os.UserConfigDir.
const configDirName = "mdexport"

// Defaults applied by DefaultConfig.
const (
	DefaultAddr           = ":8080"
	DefaultRoot           = "."
	DefaultEngine         = "auto"
	DefaultTimeoutSeconds = 30
)

// Config holds all configuration for the export service.
type Config struct {
	Server ServerConfig `yaml:"server"`
	PDF    PDFConfig    `yaml:"pdf"`
}

// ServerConfig defines the HTTP listener and the document root.
type ServerConfig struct {
	Addr string `yaml:"addr"` // listen address (default ":8080")
	Root string `yaml:"root"` // directory document paths resolve against
}

// PDFConfig defines PDF rendering options.
type PDFConfig struct {
	Engine         string `yaml:"engine"`         // "auto", "chrome", "builtin"
	FontDir        string `yaml:"fontDir"`        // Unicode font directory for the builtin engine
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // per-render budget
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: DefaultAddr, Root: DefaultRoot},
		PDF:    PDFConfig{Engine: DefaultEngine, TimeoutSeconds: DefaultTimeoutSeconds},
	}
}

// Validate checks field values. Called automatically by Load, but available
// for consumers who construct Config manually.
func (c *Config) Validate() error {
	switch c.PDF.Engine {
	case "auto", "chrome", "builtin":
		// valid
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidEngine, c.PDF.Engine)
	}

	if c.PDF.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTimeout, c.PDF.TimeoutSeconds)
	}

	if c.Server.Root != "" {
		info, err := os.Stat(c.Server.Root)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %q", ErrInvalidRoot, c.Server.Root)
		}
	}

	return nil
}

// Load reads configuration from path. An empty path searches the standard
// locations and falls back to DefaultConfig when no file exists; an explicit
// path that is missing is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		found, ok := findConfig()
		if !ok {
			cfg := DefaultConfig()
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		path = found
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is operator-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s%s", ErrConfigNotFound, path, hints.ForConfigNotFound(searchPaths()))
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), maxConfigSize)
	}

	cfg := DefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfig looks for a config file in the standard locations.
func findConfig() (string, bool) {
	for _, p := range searchPaths() {
		if fileutil.FileExists(p) {
			return p, true
		}
	}
	return "", false
}

// searchPaths lists the candidate config locations in resolution order:
// current directory first, then the user config directory, trying .yaml
// before .yml in each.
func searchPaths() []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, configDirName+ext)
	}

	if userDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userDir, configDirName, configDirName+ext))
		}
	}

	return paths
}

// String renders the effective configuration for startup logging, one
// setting per line.
func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "server.addr=%s server.root=%s ", c.Server.Addr, c.Server.Root)
	fmt.Fprintf(&sb, "pdf.engine=%s pdf.timeoutSeconds=%d", c.PDF.Engine, c.PDF.TimeoutSeconds)
	if c.PDF.FontDir != "" {
		fmt.Fprintf(&sb, " pdf.fontDir=%s", c.PDF.FontDir)
	}
	return sb.String()
}
