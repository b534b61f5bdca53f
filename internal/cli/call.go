package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var callArgs string

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Invoke a tool",
	Long: `Invoke a tool by name. Arguments are passed as a JSON object via
--args; parameters are validated against the tool's schema before the
tool runs. The result (or a failure message) is printed to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVar(&callArgs, "args", "{}", "tool arguments as a JSON object")
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	var toolArgs map[string]any
	if err := json.Unmarshal([]byte(callArgs), &toolArgs); err != nil {
		return fmt.Errorf("invalid --args: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	result := reg.Execute(cmd.Context(), args[0], toolArgs)
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}
