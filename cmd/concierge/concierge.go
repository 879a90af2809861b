// Package conciergecmder is the root of the concierge command tree.
package conciergecmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/executehq/concierge/cmd/concierge/chat"
	configcmder "github.com/executehq/concierge/cmd/concierge/config"
	rendercmder "github.com/executehq/concierge/cmd/concierge/render"
	servecmder "github.com/executehq/concierge/cmd/concierge/serve"
	versioncmder "github.com/executehq/concierge/cmd/version"
)

const conciergeLongDesc string = `Concierge is the chat assistant behind the agency website.

It relays visitor conversations to a hosted language model gateway as a
server-sent event stream and renders the assistant's markdown-lite replies.

Run services using:
  concierge serve           Run the chat server
  concierge chat            Chat with a running server from the terminal
  concierge render [file]   Render markdown-lite text in the terminal`

const conciergeShortDesc string = "Concierge - agency chat assistant"

func NewConciergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "concierge",
		Short:         conciergeShortDesc,
		Long:          conciergeLongDesc,
		SilenceUsage:  true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .concierge configuration directory")

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(rendercmder.NewRenderCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
