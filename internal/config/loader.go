package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog/log"
)

// Loader handles configuration loading and saving.
type Loader struct {
	configPath string
}

// NewLoader creates a config loader. An empty path means the default
// per-user location.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load reads the configuration file. A missing, malformed or invalid
// file is downgraded to a warning and the defaults are returned; only a
// failure to resolve the path at all is an error.
func (l *Loader) Load() (*Config, error) {
	configPath := l.configPath
	if configPath == "" {
		configPath = DefaultConfigPath()
		if configPath == "" {
			return nil, fmt.Errorf("failed to resolve default config path")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return l.withDefaults(DefaultConfig()), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", configPath).Msg("Failed to read config, using defaults")
		return l.withDefaults(DefaultConfig()), nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn().Err(err).Str("path", configPath).Msg("Failed to parse config, using defaults")
		return l.withDefaults(DefaultConfig()), nil
	}

	migrateConfig(raw)

	converted, ok := ConvertKeys(raw).(map[string]any)
	if !ok {
		log.Warn().Str("path", configPath).Msg("Config document is not an object, using defaults")
		return l.withDefaults(DefaultConfig()), nil
	}

	if err := validateDocument(converted); err != nil {
		log.Warn().Err(err).Str("path", configPath).Msg("Config failed validation, using defaults")
		return l.withDefaults(DefaultConfig()), nil
	}

	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(converted); err != nil {
		log.Warn().Err(err).Str("path", configPath).Msg("Failed to decode config, using defaults")
		return l.withDefaults(DefaultConfig()), nil
	}

	return l.withDefaults(cfg), nil
}

// Save writes cfg to the config file, converting keys back to the
// on-disk camelCase form.
func (l *Loader) Save(cfg *Config) error {
	configPath := l.configPath
	if configPath == "" {
		configPath = DefaultConfigPath()
		if configPath == "" {
			return fmt.Errorf("failed to resolve default config path")
		}
	}

	encoded, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	var snake map[string]any
	if err := json.Unmarshal(encoded, &snake); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	camel := ConvertToCamel(snake)
	data, err := json.MarshalIndent(camel, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetConfigPath returns the resolved config file path.
func (l *Loader) GetConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}
	return DefaultConfigPath()
}

// withDefaults fills derived paths that depend on the data directory.
func (l *Loader) withDefaults(cfg *Config) *Config {
	if cfg.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DataDir = filepath.Join(home, ".saku")
		}
	}
	if cfg.Logging.File == "" && cfg.DataDir != "" {
		cfg.Logging.File = filepath.Join(cfg.DataDir, "saku.log")
	}
	if cfg.History.DBPath == "" && cfg.DataDir != "" {
		cfg.History.DBPath = filepath.Join(cfg.DataDir, "history.db")
	}
	if cfg.Scheduler.JobsPath == "" && cfg.DataDir != "" {
		cfg.Scheduler.JobsPath = filepath.Join(cfg.DataDir, "jobs.json")
	}
	if cfg.WorkspacePath == "" && cfg.DataDir != "" {
		cfg.WorkspacePath = filepath.Join(cfg.DataDir, "workspace")
	}
	return cfg
}

// migrateConfig relocates legacy fields in the raw camelCase document.
// tools.exec.restrictToWorkspace moved to tools.restrictToWorkspace;
// the old location wins only when the new one is unset.
func migrateConfig(raw map[string]any) {
	tools, ok := raw["tools"].(map[string]any)
	if !ok {
		return
	}
	execCfg, ok := tools["exec"].(map[string]any)
	if !ok {
		return
	}
	value, ok := execCfg["restrictToWorkspace"]
	if !ok {
		return
	}
	if _, exists := tools["restrictToWorkspace"]; !exists {
		tools["restrictToWorkspace"] = value
	}
	delete(execCfg, "restrictToWorkspace")
}

// Load is a convenience function that creates a loader and loads the
// config.
func Load(configPath string) (*Config, error) {
	return NewLoader(configPath).Load()
}
