package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"hashhound/internal/hashtype"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	ResultsDir string `toml:"results_dir"`
	APIBind    string `toml:"api_bind"`
	APIToken   string `toml:"api_token"`
}

// Identify contains defaults for interactive classification.
type Identify struct {
	Format  string `toml:"format"`
	Workers int    `toml:"workers"`
}

// CustomDefinition is a catalog extension supplied by the user. Entries are
// appended after the built-in catalog in file order.
type CustomDefinition struct {
	Name        string `toml:"name"`
	Pattern     string `toml:"pattern"`
	Rarity      string `toml:"rarity"`
	Description string `toml:"description"`
}

// Registry contains catalog extensions.
type Registry struct {
	Custom []CustomDefinition `toml:"custom"`
}

// Workflow contains daemon timing configuration, in seconds.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
	HeartbeatInterval  int `toml:"heartbeat_interval"`
	HeartbeatTimeout   int `toml:"heartbeat_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for hashhound.
//
// Configuration sections by subsystem:
//   - Paths: data/log/result directories and API bind address
//   - Identify: default output format and batch worker count
//   - Registry: custom hash type definitions appended to the catalog
//   - Workflow: daemon polling intervals
//   - Logging: log format, level, and retention
type Config struct {
	Paths    Paths    `toml:"paths"`
	Identify Identify `toml:"identify"`
	Registry Registry `toml:"registry"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hashhound/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized, and every custom
// registry definition checked.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/hashhound/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("hashhound.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.ResultsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the queue database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "queue.db")
}

// CustomDefinitions converts the configured catalog extensions into hashtype
// definitions. Validate must have accepted the config first.
func (c *Config) CustomDefinitions() []hashtype.Definition {
	if len(c.Registry.Custom) == 0 {
		return nil
	}
	definitions := make([]hashtype.Definition, 0, len(c.Registry.Custom))
	for _, custom := range c.Registry.Custom {
		rarity, err := hashtype.ParseRarity(custom.Rarity)
		if err != nil {
			rarity = hashtype.RarityRare
		}
		definitions = append(definitions, hashtype.Definition{
			Name:        strings.TrimSpace(custom.Name),
			Pattern:     custom.Pattern,
			Rarity:      rarity,
			Description: strings.TrimSpace(custom.Description),
		})
	}
	return definitions
}

// BuildRegistry composes the built-in catalog with the configured custom
// definitions. Custom entries reusing built-in pattern text join that
// ambiguity family.
func (c *Config) BuildRegistry() *hashtype.Registry {
	custom := c.CustomDefinitions()
	if len(custom) == 0 {
		return hashtype.Builtin()
	}
	return hashtype.NewRegistry(append(hashtype.BuiltinDefinitions(), custom...))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
