package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/path/to/saku.json")
	assert.Equal(t, "/path/to/saku.json", loader.GetConfigPath())
}

func TestLoaderLoad(t *testing.T) {
	t.Run("defaults when file does not exist", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "nonexistent.json")

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.True(t, cfg.Tools.RestrictToWorkspace)
		assert.Equal(t, 30, cfg.Tools.Exec.TimeoutSeconds)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.NotEmpty(t, cfg.DataDir)
		assert.NotEmpty(t, cfg.History.DBPath)
	})

	t.Run("defaults on malformed JSON", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "saku.json")
		require.NoError(t, os.WriteFile(configPath, []byte("{not json"), 0644))

		cfg, err := Load(configPath)
		require.NoError(t, err, "malformed config must not be fatal")
		assert.Equal(t, DefaultConfig().Logging.Level, cfg.Logging.Level)
	})

	t.Run("defaults on schema violation", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "saku.json")
		// restrictToWorkspace must be a boolean.
		doc := `{"tools": {"restrictToWorkspace": "yes please"}}`
		require.NoError(t, os.WriteFile(configPath, []byte(doc), 0644))

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Tools.RestrictToWorkspace, cfg.Tools.RestrictToWorkspace)
	})

	t.Run("loads camelCase document", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "saku.json")
		doc := `{
			"dataDir": "/tmp/saku-test",
			"workspacePath": "/tmp/saku-test/ws",
			"logging": {"level": "debug", "redaction": false},
			"tools": {
				"restrictToWorkspace": false,
				"exec": {"timeoutSeconds": 12},
				"mcpServers": {
					"demo": {
						"command": "npx",
						"env": {
							"OPENAI_API_KEY": "test_key",
							"MyCustomToken": "abc"
						}
					}
				}
			}
		}`
		require.NoError(t, os.WriteFile(configPath, []byte(doc), 0644))

		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/saku-test", cfg.DataDir)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.False(t, cfg.Logging.Redaction)
		assert.False(t, cfg.Tools.RestrictToWorkspace)
		assert.Equal(t, 12, cfg.Tools.Exec.TimeoutSeconds)

		demo, ok := cfg.Tools.MCPServers["demo"]
		require.True(t, ok)
		assert.Equal(t, "npx", demo.Command)
		assert.Equal(t, "test_key", demo.Env["OPENAI_API_KEY"])
		assert.Equal(t, "abc", demo.Env["MyCustomToken"])
	})

	t.Run("migrates legacy restrictToWorkspace", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "saku.json")
		doc := `{"tools": {"exec": {"restrictToWorkspace": false, "timeoutSeconds": 5}}}`
		require.NoError(t, os.WriteFile(configPath, []byte(doc), 0644))

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.False(t, cfg.Tools.RestrictToWorkspace)
		assert.Equal(t, 5, cfg.Tools.Exec.TimeoutSeconds)
	})

	t.Run("migration does not clobber new location", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "saku.json")
		doc := `{"tools": {"restrictToWorkspace": true, "exec": {"restrictToWorkspace": false}}}`
		require.NoError(t, os.WriteFile(configPath, []byte(doc), 0644))

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.True(t, cfg.Tools.RestrictToWorkspace)
	})

	t.Run("derived paths follow data dir", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "saku.json")
		doc := `{"dataDir": "/tmp/saku-data"}`
		require.NoError(t, os.WriteFile(configPath, []byte(doc), 0644))

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/saku-data", "saku.log"), cfg.Logging.File)
		assert.Equal(t, filepath.Join("/tmp/saku-data", "history.db"), cfg.History.DBPath)
		assert.Equal(t, filepath.Join("/tmp/saku-data", "jobs.json"), cfg.Scheduler.JobsPath)
	})
}

func TestLoaderSave_RoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "saku.json")
	loader := NewLoader(configPath)

	cfg := DefaultConfig()
	cfg.DataDir = "/tmp/saku-save"
	cfg.Logging.Level = "warn"
	cfg.Tools.RestrictToWorkspace = false
	cfg.Tools.MCPServers = map[string]MCPServerConfig{
		"demo": {
			Command: "npx",
			Env: map[string]string{
				"OPENAI_API_KEY": "test_key",
				"MyCustomToken":  "abc",
			},
		},
	}

	require.NoError(t, loader.Save(cfg))

	// On disk the keys are camelCase, except env var names.
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `"restrictToWorkspace"`)
	assert.Contains(t, content, `"mcpServers"`)
	assert.Contains(t, content, `"OPENAI_API_KEY"`)
	assert.Contains(t, content, `"MyCustomToken"`)
	assert.NotContains(t, content, `"restrict_to_workspace"`)

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", loaded.Logging.Level)
	assert.False(t, loaded.Tools.RestrictToWorkspace)
	assert.Equal(t, "test_key", loaded.Tools.MCPServers["demo"].Env["OPENAI_API_KEY"])
	assert.Equal(t, "abc", loaded.Tools.MCPServers["demo"].Env["MyCustomToken"])
}

func TestMigrateConfig(t *testing.T) {
	raw := map[string]any{
		"tools": map[string]any{
			"exec": map[string]any{"restrictToWorkspace": true},
		},
	}
	migrateConfig(raw)

	tools := raw["tools"].(map[string]any)
	assert.Equal(t, true, tools["restrictToWorkspace"])
	assert.NotContains(t, tools["exec"].(map[string]any), "restrictToWorkspace")
}

func TestValidateDocument(t *testing.T) {
	assert.NoError(t, validateDocument(map[string]any{
		"tools": map[string]any{"restrict_to_workspace": true},
	}))

	err := validateDocument(map[string]any{
		"tools": map[string]any{"restrict_to_workspace": "nope"},
	})
	assert.Error(t, err)

	// Unknown keys are tolerated.
	assert.NoError(t, validateDocument(map[string]any{"future_field": 1}))
}
