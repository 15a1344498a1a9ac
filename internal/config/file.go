package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "5s" parse correctly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// File holds the on-disk configuration. All fields are optional; zero values
// fall back to the package defaults.
type File struct {
	BackendURL   string   `yaml:"backend_url"`
	DataDir      string   `yaml:"data_dir"`
	UserID       string   `yaml:"user_id"`
	PollInterval Duration `yaml:"poll_interval"`
}

// DefaultBackendURL points at the hosted storefront backend.
const DefaultBackendURL = "https://api.souq.app"

// DefaultPath returns the config file location following XDG standards.
func DefaultPath() (string, error) {
	if path := os.Getenv("SOUQ_CONFIG"); path != "" {
		return path, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "souq", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "souq", "config.yaml"), nil
}

// Load reads the config file at path, applies defaults for unset fields, and
// applies environment overrides. A missing file is not an error - it yields
// the defaults.
func Load(path string) (*File, error) {
	cfg := &File{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file, run on defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *File) {
	if url := os.Getenv("SOUQ_BACKEND_URL"); url != "" {
		cfg.BackendURL = url
	}
	if dir := os.Getenv("SOUQ_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if user := os.Getenv("SOUQ_USER_ID"); user != "" {
		cfg.UserID = user
	}
}

func applyDefaults(cfg *File) {
	if cfg.BackendURL == "" {
		cfg.BackendURL = DefaultBackendURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = Duration(DefaultPollInterval)
	}
}
