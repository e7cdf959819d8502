package slots

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile  = "slotguide.yml"
	defaultLookupFile  = "data/lookup_tables.yml"
	defaultIntentsFile = "intents_config.yml"
	// DefaultPendingSlot is the dialogue slot that carries the pending flag.
	DefaultPendingSlot = "pedido_incompleto"
)

// Config aggregates the engine settings persisted to slotguide.yml.
type Config struct {
	LookupPath     string   `yaml:"lookup_path"`
	LookupDir      string   `yaml:"lookup_dir,omitempty"`
	IntentsPath    string   `yaml:"intents_path"`
	MaxSuggestions int      `yaml:"max_suggestions" validate:"gte=1,lte=10"`
	MinSimilarity  float64  `yaml:"min_similarity" validate:"gt=0,lte=1"`
	RequireAll     bool     `yaml:"require_all"`
	PendingSlot    string   `yaml:"pending_slot" validate:"required"`
	Messages       Messages `yaml:"messages"`
	// BaseDir anchors relative asset paths. LoadConfig sets it to the
	// directory of the config file; empty means the working directory.
	BaseDir string `yaml:"-"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.LookupPath == "" && c.LookupDir == "" {
		c.LookupPath = defaultLookupFile
	}
	if c.IntentsPath == "" {
		c.IntentsPath = defaultIntentsFile
	}
	if c.MaxSuggestions == 0 {
		c.MaxSuggestions = DefaultMaxSuggestions
	}
	if c.MinSimilarity == 0 {
		c.MinSimilarity = DefaultMinSimilarity
	}
	if c.PendingSlot == "" {
		c.PendingSlot = DefaultPendingSlot
	}
	c.Messages = c.Messages.withDefaults()
}

var configValidator = validator.New()

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from path or the default slotguide.yml. A
// missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	cfg := Config{BaseDir: filepath.Dir(path)}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig persists configuration to disk through a temporary file.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// LoadAssets loads the lookup table and intent registry named by cfg. The
// lookup directory, when set, takes precedence over the lookup file. Relative
// paths are taken from cfg.BaseDir.
func LoadAssets(cfg Config, log Logger) (*LookupTable, *IntentRegistry, error) {
	var (
		lookup *LookupTable
		err    error
	)
	if cfg.LookupDir != "" {
		lookup, err = LoadLookupDir(cfg.resolve(cfg.LookupDir), log)
	} else {
		lookup, err = LoadLookup(cfg.resolve(cfg.LookupPath), log)
	}
	if err != nil {
		return nil, nil, err
	}
	intents, err := LoadIntents(cfg.resolve(cfg.IntentsPath), log)
	if err != nil {
		return nil, nil, err
	}
	return lookup, intents, nil
}

// resolve anchors a relative asset path at BaseDir.
func (c Config) resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || c.BaseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}
