package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for tardis.
type Config struct {
	// HistoryDir is the editor's local history store. It is read, never written.
	HistoryDir string        `toml:"history_dir"`
	BaseDir    string        `toml:"base_dir"`
	LogDir     string        `toml:"log_dir"`
	Ignore     []string      `toml:"ignore"`
	Journal    JournalConfig `toml:"journal"`
}

// JournalConfig represents configuration for the restore journal.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type JournalConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory" or "none"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a new Config with the provided values and default paths
// derived from baseDir.
func NewConfig(baseDir, historyDir string) *Config {
	return &Config{
		HistoryDir: historyDir,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
		Journal: JournalConfig{
			Type:    "sqlite",
			DataDir: baseDir,
		},
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

// Load reads the config at path, falling back to defaults when the file
// does not exist. Empty fields in a config file are filled from defaults.
func Load(path string, defaults *Config) (*Config, error) {
	cfg, err := ReadFromFile(path)
	if err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			c := *defaults
			return &c, nil
		}
		return nil, err
	}

	if cfg.HistoryDir == "" {
		cfg.HistoryDir = defaults.HistoryDir
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = defaults.BaseDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = defaults.LogDir
	}
	if cfg.Journal.Type == "" {
		cfg.Journal = defaults.Journal
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

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
