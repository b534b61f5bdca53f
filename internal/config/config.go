// Package config loads and saves the saku configuration. On disk the
// document uses camelCase keys; in memory everything is snake_case.
// Load failures are never fatal: the loader warns and falls back to
// defaults.
package config

import (
	"os"
	"path/filepath"
)

// Config is the root saku configuration.
type Config struct {
	Tools         ToolsConfig     `json:"tools" mapstructure:"tools"`
	Logging       LoggingConfig   `json:"logging" mapstructure:"logging"`
	History       HistoryConfig   `json:"history" mapstructure:"history"`
	Metrics       MetricsConfig   `json:"metrics" mapstructure:"metrics"`
	Scheduler     SchedulerConfig `json:"scheduler" mapstructure:"scheduler"`
	DataDir       string          `json:"data_dir" mapstructure:"data_dir"`
	WorkspacePath string          `json:"workspace_path" mapstructure:"workspace_path"`
}

// ToolsConfig holds tool runtime configuration.
type ToolsConfig struct {
	RestrictToWorkspace bool                       `json:"restrict_to_workspace" mapstructure:"restrict_to_workspace"`
	Exec                ExecConfig                 `json:"exec" mapstructure:"exec"`
	MCPServers          map[string]MCPServerConfig `json:"mcp_servers" mapstructure:"mcp_servers"`
}

// ExecConfig holds settings for the exec tool.
type ExecConfig struct {
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// MCPServerConfig describes an external MCP tool server. Env keys are
// environment variable names and keep their exact casing on disk and in
// memory.
type MCPServerConfig struct {
	Command      string            `json:"command" mapstructure:"command"`
	Args         []string          `json:"args" mapstructure:"args"`
	URL          string            `json:"url" mapstructure:"url"`
	Env          map[string]string `json:"env" mapstructure:"env"`
	ExtraHeaders map[string]string `json:"extra_headers" mapstructure:"extra_headers"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// HistoryConfig holds invocation history settings.
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	DBPath  string `json:"db_path" mapstructure:"db_path"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
}

// SchedulerConfig holds cron scheduler settings.
type SchedulerConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	JobsPath string `json:"jobs_path" mapstructure:"jobs_path"`
}

// DefaultConfig returns the configuration used when no file exists or
// the file cannot be loaded.
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			RestrictToWorkspace: true,
			Exec: ExecConfig{
				TimeoutSeconds: 30,
			},
		},
		Logging: LoggingConfig{
			Level:     "info",
			Redaction: true,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Metrics: MetricsConfig{
			Addr: "127.0.0.1:9464",
		},
		Scheduler: SchedulerConfig{
			Enabled: true,
		},
	}
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".saku", "saku.json")
}
