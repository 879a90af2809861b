// Package configcmder provides the config command for managing persistent
// concierge configuration stored in the .concierge/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/executehq/concierge/pkg/cliui"
	"github.com/executehq/concierge/pkg/config"
)

const configLongDesc string = `Manage persistent concierge configuration.

Configuration is stored as config.toml in the .concierge/ directory and
provides default values for command flags. CLI flags and CONCIERGE_*
environment variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  gateway.url, gateway.model, gateway.api_key, gateway.system_prompt,
  server.listen, server.allowed_origins,
  storage.driver, storage.sqlite_path, storage.postgres_dsn,
  events.kafka_brokers, events.kafka_topic,
  client.server_target

Use subcommands to get, set, or list configuration values:
  concierge config set <key> <value>    Set a configuration value
  concierge config get <key>            Get a configuration value
  concierge config list                 List all configuration values

Examples:
  concierge config set gateway.model google/gemini-2.5-flash
  concierge config set storage.driver sqlite
  concierge config get server.listen
  concierge config list`

const configShortDesc string = "Manage persistent concierge configuration"

// secretMask replaces secret values in command output.
const secretMask = "********"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func validateKey(key string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}
	return nil
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func printTarget(w io.Writer, cfger *config.Configer) {
	target := cfger.GetTarget()
	if target != "" {
		fmt.Fprintf(w, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
		return
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}

// displayValue masks secrets and marks empty values.
func displayValue(key, value string) string {
	switch {
	case value == "":
		return cliui.DimStyle.Render("<not set>")
	case config.IsSecretKey(key):
		return cliui.DimStyle.Render(secretMask)
	default:
		return cliui.ValueStyle.Render(value)
	}
}
