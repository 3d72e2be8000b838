// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/heritage-tui/internal/config"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change settings in the config file.

Keys use dot notation:
  api.base_url  chat.language  chat.latitude  chat.longitude
  store.backend store.path     log.level      log.file
  ui.theme      ui.markdown    ui.speak_replies  ui.no_color

A running chat screen picks up changes to the file.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(cmd.OutOrStdout(), e.cfg.String())
				return nil
			},
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print one setting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := e.cfg.Get(args[0])
				if err != nil {
					return err
				}
				if v == nil {
					v = ""
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Change one setting in the config file",
			Long:  "Change one setting in the config file. An empty VALUE clears chat.latitude or chat.longitude.",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				// The file is edited as written, without flags or environment overrides.
				cfg, err := config.ReadFile(e.cfgPath)
				if err != nil {
					return err
				}
				if err := cfg.Set(args[0], args[1]); err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
				if err := config.SaveTo(cfg, e.cfgPath); err != nil {
					return err
				}
				successColor.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List every setting key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, key := range config.GetAllKeys() {
					fmt.Fprintln(cmd.OutOrStdout(), key)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), e.cfgPath)
				return nil
			},
		},
	)
	return cmd
}
