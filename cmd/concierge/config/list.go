package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/executehq/concierge/pkg/cliui"
	"github.com/executehq/concierge/pkg/config"
)

const listLongDesc string = `List all configuration values.

Displays every configuration key and its current value from the config.toml
file stored in the .concierge/ directory. Secret values are masked.

Examples:
  concierge config list`

const listShortDesc string = "List all configuration values"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(cmd.OutOrStdout(), configDir)
		},
	}

	return cmd
}

func runList(w io.Writer, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	printTarget(w, cfger)

	keys := config.ValidConfigKeys()

	maxLen := 0
	for _, k := range keys {
		maxLen = max(maxLen, len(k))
	}

	for _, key := range keys {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "  %s  %s\n",
			cliui.KeyStyle.Render(fmt.Sprintf("%-*s", maxLen, key)),
			displayValue(key, value),
		)
	}
	fmt.Fprintln(w)

	return nil
}
