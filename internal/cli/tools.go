package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var toolsJSON bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available tools",
	Long: `List the registered tools together with their parameter schemas.
Use --json for machine-readable output.`,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	if toolsJSON {
		type toolInfo struct {
			Name        string         `json:"name"`
			Description string         `json:"description"`
			Parameters  map[string]any `json:"parameters"`
		}
		infos := make([]toolInfo, 0)
		for _, t := range reg.List() {
			infos = append(infos, toolInfo{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters().JSONMap(),
			})
		}
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	for _, t := range reg.List() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.Name(), t.Description())
	}
	return nil
}
