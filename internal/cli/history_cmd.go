// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/heritage-tui/internal/export"
	"github.com/jeranaias/heritage-tui/internal/model"
)

func newHistoryCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show, clear or export your chat history",
	}
	cmd.AddCommand(newHistoryShowCmd(e), newHistoryClearCmd(e), newHistoryExportCmd(e))
	return cmd
}

// fetchHistory turns a failed fetch into an error. The TUI degrades to an
// empty chat instead; a command should say what went wrong.
func fetchHistory(cmd *cobra.Command, e *env) ([]model.Message, error) {
	client, _, err := e.Authed()
	if err != nil {
		return nil, err
	}
	res := client.FetchHistory(cmd.Context())
	if res.Failed() {
		return nil, fmt.Errorf("could not load history: %w", res.Err)
	}
	return res.Messages, nil
}

func newHistoryShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := fetchHistory(cmd, e)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(msgs) == 0 {
				mutedColor.Fprintln(out, "No messages yet.")
				return nil
			}
			for _, msg := range msgs {
				label := userColor
				if msg.Role == model.RoleAssistant {
					label = assistantColor
				}
				fmt.Fprintf(out, "%s %s\n", label.Sprint(msg.Role.DisplayName()), mutedColor.Sprint(msg.Timestamp.Local().Format("2 Jan 15:04")))
				fmt.Fprintln(out, msg.Text)
				if msg.HasPosition() {
					mutedColor.Fprintf(out, "📍 %.4f, %.4f\n", *msg.Latitude, *msg.Longitude)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func newHistoryClearCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := e.Authed()
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm("Delete your whole chat history?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			res := client.ClearHistory(cmd.Context())
			if !res.OK() {
				return fmt.Errorf("could not clear history: %w", res.Err)
			}
			successColor.Fprintf(cmd.OutOrStdout(), "Chat history cleared (%d messages)\n", res.Deleted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newHistoryExportCmd(e *env) *cobra.Command {
	var (
		format     string
		output     string
		timestamps bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored messages as html, md, json or yaml",
		Example: `  heritage history export --format md -o trip.md
  heritage history export --format json | jq .messages`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			msgs, err := fetchHistory(cmd, e)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				return errNoHistory
			}

			opts := export.DefaultOptions()
			opts.IncludeTimestamps = timestamps
			opts.UserName = e.sessionName()
			exporter, err := export.New(f, opts)
			if err != nil {
				return err
			}
			content, err := exporter.Export(model.NewConversation(msgs...))
			if err != nil {
				return err
			}

			if output != "" && output != "-" {
				if err := export.WriteFile(output, content); err != nil {
					return err
				}
				successColor.Fprintf(cmd.ErrOrStderr(), "Exported %d messages to %s\n", len(msgs), output)
				return nil
			}
			out := cmd.OutOrStdout()
			if highlighted(f) && isTerminalWriter(out) && !e.cfg.UI.NoColor {
				return export.Highlight(out, content, f)
			}
			_, err = out.Write(content)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatMarkdown), "html, md, json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	cmd.Flags().BoolVar(&timestamps, "timestamps", true, "include message times")
	return cmd
}

// highlighted formats are colored when written to a terminal.
func highlighted(f export.Format) bool {
	return f == export.FormatJSON || f == export.FormatYAML
}

var errNoHistory = errors.New("nothing to export: no messages yet")
