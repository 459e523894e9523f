package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bridgefs/bridgefs/internal/util"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultBatchWindow is the change-notification coalescing window.
	// Signals arriving within one window collapse into a single flush.
	DefaultBatchWindow = 100 * time.Millisecond

	// DefaultDirMode is the permission mode applied to newly created directories
	DefaultDirMode = fs.FileMode(0o755)

	// DefaultTrashDir is the directory name drivers use when trashing by move
	DefaultTrashDir = ".trash"

	// DefaultLogLvl is the default log level
	DefaultLogLvl = util.InfoLevel
)

// CLI verbosity bounds; verbosity maps onto [util.LogLevel] inverted
// (1 = error .. 5 = trace).
const (
	ErrorVerbose = 1
	WarnVerbose  = 2
	InfoVerbose  = 3
	DebugVerbose = 4
	TraceVerbose = 5
)

// Config contains runtime configuration values for the bridgefs adapter.
type Config struct {
	BatchWindow time.Duration // Coalescing window for change notifications (Default 100ms)
	DirMode     fs.FileMode   // Permission bits for newly created directories (Default 0o755)
	TrashDir    string        // Directory name used by drivers that trash by moving (Default ".trash")
	LogLvl      util.LogLevel // Log level (Default info)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero
// values when loading partial configuration. See [Config] for field
// descriptions. BatchWindowMS and DirMode use plain integer encodings so
// override files stay trivially writable by hand.
type ConfigOverride struct {
	BatchWindowMS *int    `yaml:"batch_window_ms,omitempty" json:"batch_window_ms,omitempty"`
	DirMode       *uint32 `yaml:"dir_mode,omitempty" json:"dir_mode,omitempty"`
	TrashDir      *string `yaml:"trash_dir,omitempty" json:"trash_dir,omitempty"`
	LogLvl        *int    `yaml:"log_lvl,omitempty" json:"log_lvl,omitempty"` // CLI-style verbosity 1 (error) .. 5 (trace)
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		BatchWindow: DefaultBatchWindow,
		DirMode:     DefaultDirMode,
		TrashDir:    DefaultTrashDir,
		LogLvl:      DefaultLogLvl,
	}
}

// NewConfig creates a Config from defaults with override applied on top.
// A nil override returns pure defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.BatchWindowMS != nil {
		c.BatchWindow = time.Duration(*override.BatchWindowMS) * time.Millisecond
	}
	if override.DirMode != nil {
		c.DirMode = fs.FileMode(*override.DirMode)
	}
	if override.TrashDir != nil {
		c.TrashDir = *override.TrashDir
	}
	if override.LogLvl != nil {
		c.LogLvl = VerboseToLevel(*override.LogLvl)
	}
}

// VerboseToLevel converts CLI verbosity (1 = error .. 5 = trace) to the
// internal log level, clamping out-of-range input.
func VerboseToLevel(verbose int) util.LogLevel {
	if verbose < ErrorVerbose {
		verbose = ErrorVerbose
	}
	if verbose > TraceVerbose {
		verbose = TraceVerbose
	}
	lvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return lvls[verbose-1]
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
