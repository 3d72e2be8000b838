// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/heritage-tui/internal/app"
	"github.com/jeranaias/heritage-tui/internal/device"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	apiURL     string
	store      string
	storePath  string
	logLevel   string
	verbose    bool
	noColor    bool
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd()
	return root
}

func newRootCmd() (*cobra.Command, *env) {
	e := &env{}

	root := &cobra.Command{
		Use:   "heritage",
		Short: "Chat with the Tamil Nadu heritage tourism assistant",
		Long: `heritage is a terminal client for the Tamil Nadu Heritage AI assistant.

Ask about temples, forts, museums, beaches, food and festivals. Replies
stream in as they are written, in English, Tamil or Hindi.

Quick Start:
  heritage signup                     # create an account
  heritage                            # open the chat screen
  heritage ask "Best time to visit Madurai?"
  heritage history export --format md -o trip.md`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, e)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.opts.configPath, "config", "", "config file (default ~/.heritage/config.toml)")
	flags.StringVar(&e.opts.apiURL, "api-url", "", "backend base URL")
	flags.StringVar(&e.opts.store, "store", "", "session store backend: bolt, sqlite, json or memory")
	flags.StringVar(&e.opts.storePath, "store-path", "", "session store file")
	flags.StringVar(&e.opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVarP(&e.opts.verbose, "verbose", "v", false, "log to stderr")
	flags.BoolVar(&e.opts.noColor, "no-color", false, "disable colored output")

	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newLoginCmd(e),
		newSignupCmd(e),
		newLogoutCmd(e),
		newWhoamiCmd(e),
		newProfileCmd(e),
		newAccountCmd(e),
		newAskCmd(e),
		newChatCmd(e),
		newHistoryCmd(e),
		newStatusCmd(e),
		newConfigCmd(e),
		newVersionCmd(),
	)

	return root, e
}

// Run executes the command tree with args and releases everything the
// command opened.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, e := newRootCmd()
	defer e.Close()

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// Execute runs the command tree and exits 1 on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// runTUI opens the full-screen chat.
func runTUI(cmd *cobra.Command, e *env) error {
	if !IsTTY() || !IsStdoutTTY() {
		return fmt.Errorf("the chat screen needs a terminal; use 'heritage ask' or 'heritage chat --plain'")
	}
	sessions, err := e.Sessions()
	if err != nil {
		return err
	}
	client, err := e.Client()
	if err != nil {
		return err
	}

	return app.Run(cmd.Context(), app.Deps{
		Client:     client,
		Sessions:   sessions,
		Config:     e.cfg,
		Logger:     e.logger,
		Locator:    device.NewLocator(e.cfg.Chat.Latitude, e.cfg.Chat.Longitude),
		Speaker:    device.NewSpeaker(),
		ConfigPath: e.cfgPath,
		ExportDir:  ".",
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No config or store is needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "heritage %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", BuildDate)
		},
	}
}
