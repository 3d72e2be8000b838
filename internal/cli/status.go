// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the backend and the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			client, err := e.Client()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("Backend:"), client.BaseURL())

			health, healthErr := client.Health(cmd.Context())
			if healthErr != nil {
				fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("Status: "), advisoryColor.Sprint("unreachable"))
			} else {
				status := health.Status
				if status == "" {
					status = "ok"
				}
				fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("Status: "), successColor.Sprint(status))
				if health.Version != "" {
					fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("Version:"), health.Version)
				}
				if len(health.Features) > 0 {
					fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("Features:"), strings.Join(health.Features, ", "))
				}
			}

			sessions, err := e.Sessions()
			if err != nil {
				return err
			}
			sess, err := sessions.Load()
			if err != nil {
				return err
			}
			if sess == nil {
				fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("User:   "), mutedColor.Sprint("not logged in"))
			} else {
				fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("User:   "), sess.Name)
			}
			fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("Language:"), e.cfg.Language().EnglishName())

			if healthErr != nil {
				return fmt.Errorf("backend unreachable: %w", healthErr)
			}
			return nil
		},
	}
}
