package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dssrules/internal/logging"
	"dssrules/pkg/fileops"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "dssrules" // application name used for config directory

const (
	// DefaultLivenessDelay matches the supervisor's default window.
	DefaultLivenessDelay = 5 * time.Second

	configVersion = "1.0"
)

// RemoteConfig describes an optional git repository the rules directory is
// synced from. An empty Branch follows the remote's default branch.
type RemoteConfig struct {
	URL    string `yaml:"url,omitempty"`
	Branch string `yaml:"branch,omitempty"`
}

// Config holds user configuration for dssrules.
type Config struct {
	// RulesDir is the directory rule documents are read from.
	RulesDir string `yaml:"rules_dir"`
	// LivenessDelay is how long the server waits for a first get_dss_rules
	// call before warning.
	LivenessDelay time.Duration `yaml:"liveness_delay"`
	Remote        RemoteConfig  `yaml:"remote,omitempty"`
	Version       string        `yaml:"version"`
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() string {
	configPath := filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")
	logging.Debug("Determined config path", "path", configPath)
	return configPath
}

// DefaultRulesDir is .cursor/rules beneath the working directory.
func DefaultRulesDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".cursor", "rules")
	}
	return filepath.Join(wd, ".cursor", "rules")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RulesDir:      DefaultRulesDir(),
		LivenessDelay: DefaultLivenessDelay,
		Version:       configVersion,
	}
}

// Load loads the config from the standard location. A missing file is not
// an error: the defaults are returned instead.
func Load() (*Config, error) {
	path := ConfigPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logging.Debug("No config file, using defaults", "path", path)
		cfg := DefaultConfig()
		return &cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads config from a specific path. Fields the file leaves out
// keep their defaults.
func LoadFrom(path string) (*Config, error) {
	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RulesDir) == "" {
		return errors.New("rules_dir cannot be empty")
	}
	if c.LivenessDelay <= 0 {
		return fmt.Errorf("liveness_delay must be positive, got %s", c.LivenessDelay)
	}
	if c.Remote.Branch != "" && c.Remote.URL == "" {
		return errors.New("remote.branch is set but remote.url is empty")
	}
	return nil
}

// ResolvedRulesDir returns RulesDir as an absolute path, with a leading
// "~/" expanded and relative paths anchored at the working directory.
func (c *Config) ResolvedRulesDir() (string, error) {
	dir, err := filepath.Abs(fileops.ExpandPath(c.RulesDir))
	if err != nil {
		return "", fmt.Errorf("cannot resolve rules directory %q: %w", c.RulesDir, err)
	}
	return dir, nil
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	if c.Version == "" {
		c.Version = configVersion
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file with restrictive permissions (600) for security
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logging.Info("Configuration saved", "path", path)
	return nil
}
