package cli

import (
	"fmt"
	"time"

	"github.com/harun/saku/internal/config"
	"github.com/harun/saku/pkg/coretools"
	"github.com/harun/saku/pkg/tool"
)

// loadConfig loads the configuration honoring the --config and
// --log-level flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// buildRegistry creates a tool registry with the core tools registered
// from the given configuration.
func buildRegistry(cfg *config.Config) (*tool.Registry, error) {
	reg := tool.NewRegistry()
	err := coretools.RegisterCoreTools(reg, coretools.Options{
		WorkspaceRoot:       cfg.WorkspacePath,
		RestrictToWorkspace: cfg.Tools.RestrictToWorkspace,
		ExecTimeout:         time.Duration(cfg.Tools.Exec.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register core tools: %w", err)
	}
	return reg, nil
}
