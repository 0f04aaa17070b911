// Package main provides the CLI entry point for the agentline chat client.
//
// Agentline connects a terminal to a Bot Framework agent over the Direct
// Line channel: it manages the connection lifecycle with automatic recovery,
// renders streaming responses as they arrive, and keeps typing indicators
// honest.
//
// # Basic Usage
//
// Start a chat session:
//
//	agentline chat --config agentline.yaml
//
// The channel secret can also come from the environment:
//
//	AGENTLINE_SECRET=dl_... agentline chat
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build information - populated by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// Separated from main() to facilitate testing.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "agentline",
		Short: "Agentline - Direct Line chat client for Bot Framework agents",
		Long: `Agentline is a terminal client for conversational agents exposed over the
Direct Line channel. It handles connection recovery with backoff, streaming
response rendering, typing indicators, and conversation resume.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildChatCmd(),
		buildStatusCmd(),
	)

	return rootCmd
}
