package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the engine configuration.
type Config struct {
	// WorkDir is where all projects, logs and temporary data live.
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `toml:"log_level"`
	// JSONIndent is the indentation of every stored JSON file.
	JSONIndent string `toml:"json_indent"`

	Signature SignatureConfig `toml:"signature"`
	Locale    LocaleConfig    `toml:"locale"`
	Git       GitConfig       `toml:"git"`
	Container ContainerConfig `toml:"container"`
}

// SignatureConfig identifies the author of every commit the engine makes.
type SignatureConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// LocaleConfig seeds new projects' default language.
type LocaleConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// GitConfig configures the git subprocess adapter.
type GitConfig struct {
	// Bin is the git executable; "git" when empty.
	Bin string `toml:"bin,omitempty"`
	// TimeoutSeconds bounds each git invocation; 0 means no bound.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// ContainerConfig configures the podman subprocess adapter.
type ContainerConfig struct {
	// Bin is the podman executable; "podman" when empty.
	Bin string `toml:"bin,omitempty"`
	// TimeoutSeconds bounds each podman invocation; 0 means no bound.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// GitTimeout returns the configured git timeout as a duration.
func (c *Config) GitTimeout() time.Duration {
	return time.Duration(c.Git.TimeoutSeconds) * time.Second
}

// ContainerTimeout returns the configured podman timeout as a duration.
func (c *Config) ContainerTimeout() time.Duration {
	return time.Duration(c.Container.TimeoutSeconds) * time.Second
}

// NewConfig creates a Config with defaults rooted at the given directory.
func NewConfig(workDir string) *Config {
	return &Config{
		WorkDir:    workDir,
		LogDir:     filepath.Join(workDir, "logs"),
		LogLevel:   "info",
		JSONIndent: "  ",
		Signature: SignatureConfig{
			Name:  "gitcms",
			Email: "gitcms@localhost",
		},
		Locale: LocaleConfig{
			ID:   "en",
			Name: "English",
		},
		Git:       GitConfig{TimeoutSeconds: 120},
		Container: ContainerConfig{TimeoutSeconds: 600},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the
// provided Config. An existing file is never overwritten.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
