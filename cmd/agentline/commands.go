// commands.go contains the cobra command definitions and flag wiring. Each
// builder creates a command and routes it to its handler in handlers.go.
package main

import (
	"github.com/spf13/cobra"
)

// buildChatCmd creates the "chat" command, the primary way to talk to an
// agent.
func buildChatCmd() *cobra.Command {
	var (
		configPath string
		secret     string
		endpoint   string
		debug      bool
		polling    bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session with the agent",
		Long: `Start an interactive chat session over Direct Line.

The client will:
1. Load configuration from the specified file (flags override it)
2. Open a conversation with the channel secret
3. Stream agent responses to the terminal as they arrive
4. Reconnect automatically with exponential backoff on transient failures

Type a message and press enter to send it. Exit with /quit or Ctrl-C.`,
		Example: `  # Chat with config file
  agentline chat --config agentline.yaml

  # Chat with secret from the environment
  AGENTLINE_SECRET=dl_... agentline chat

  # Force HTTP polling instead of the websocket stream
  agentline chat --polling`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), chatOptions{
				configPath: configPath,
				secret:     secret,
				endpoint:   endpoint,
				debug:      debug,
				polling:    polling,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().StringVar(&secret, "secret", "", "Direct Line channel secret (overrides config and AGENTLINE_SECRET)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Direct Line service endpoint (overrides config)")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().BoolVar(&polling, "polling", false, "Use HTTP polling instead of the websocket stream")

	return cmd
}

// buildStatusCmd creates the "status" command: connect, report, disconnect.
func buildStatusCmd() *cobra.Command {
	var (
		configPath string
		secret     string
		endpoint   string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check connectivity to the agent and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), chatOptions{
				configPath: configPath,
				secret:     secret,
				endpoint:   endpoint,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().StringVar(&secret, "secret", "", "Direct Line channel secret (overrides config and AGENTLINE_SECRET)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Direct Line service endpoint (overrides config)")

	return cmd
}
