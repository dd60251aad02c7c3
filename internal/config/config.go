// Package config loads and persists AgentAudit's process-wide read-mostly
// state: the preferred LLM provider, a default model override, and output
// preferences. Grounded on the teacher's own config.Load/yaml.v3 pattern,
// narrowed from a sandbox daemon's dozens of sections to the handful of
// settings spec.md section 5 actually describes as shared state.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the persisted local configuration file (default path
// ~/.agentaudit/config.yaml, overridable via AGENTAUDIT_CONFIG).
type Config struct {
	PreferredProvider string `yaml:"preferred_provider,omitempty"`
	DefaultModel      string `yaml:"default_model,omitempty"`
	OutputFormat      string `yaml:"output_format,omitempty"` // json|sarif
	Verify            string `yaml:"verify,omitempty"`        // self|cross|<model-id>|"" (same as self)
	NoUpload          bool   `yaml:"no_upload,omitempty"`
}

// DefaultPath resolves the config file location per spec.md section 6's
// environment-variable precedence: AGENTAUDIT_CONFIG, else a fixed
// per-user path.
func DefaultPath() string {
	if v := os.Getenv("AGENTAUDIT_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agentaudit.yaml"
	}
	return filepath.Join(home, ".agentaudit", "config.yaml")
}

// Load reads the config file at path. A missing file is not an error: it
// yields a zero-value Config, since every field has a documented fallback
// (llmaudit.Select's provider precedence, "json" output, verification on).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
