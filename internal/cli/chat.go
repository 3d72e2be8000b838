// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/heritage-tui/internal/api"
	"github.com/jeranaias/heritage-tui/internal/config"
	"github.com/jeranaias/heritage-tui/internal/model"
)

func newChatCmd(e *env) *cobra.Command {
	var (
		plain bool
		flags queryFlags
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the chat screen, or a line-mode chat with --plain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !plain {
				return runTUI(cmd, e)
			}
			q, err := flags.query(cmd, e)
			if err != nil {
				return err
			}
			client, sess, err := e.Authed()
			if err != nil {
				return err
			}
			reader := newLinerReader()
			defer reader.Close()
			return (&repl{
				cmd:    cmd,
				client: client,
				name:   sess.Name,
				query:  q,
				input:  reader,
			}).run()
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "line-mode chat without the full-screen interface")
	flags.register(cmd)
	return cmd
}

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader reads one line per prompt. io.EOF and liner.ErrPromptAborted
// end the session.
type lineReader interface {
	ReadInput(prompt string) (string, error)
}

// linerReader provides input history and line editing.
// USABILITY: Supports arrow keys for history navigation and line editing.
type linerReader struct {
	line        *liner.State
	historyFile string
}

func newLinerReader() *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile, err := config.HistoryPath()
	if err != nil {
		historyFile = ""
	}
	r := &linerReader{line: line, historyFile: historyFile}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *linerReader) ReadInput(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and restores the terminal.
func (r *linerReader) Close() {
	defer r.line.Close()
	if r.historyFile == "" || config.EnsureConfigDir() != nil {
		return
	}
	// SECURITY: history holds the user's questions.
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}

// =============================================================================
// REPL
// =============================================================================

type repl struct {
	cmd    *cobra.Command
	client *api.Client
	name   string
	query  api.Query
	input  lineReader
}

const replHelp = `Commands:
  /lang [en|ta|hi]  switch or cycle the reply language
  /clear            delete your chat history on the server
  /help             show this help
  /quit             leave the chat`

func (r *repl) run() error {
	out := r.cmd.OutOrStdout()
	assistantColor.Fprintln(out, "Heritage AI")
	fmt.Fprintln(out, model.WelcomeText(r.name))
	mutedColor.Fprintln(out, "Type /help for commands, /quit to leave.")

	for {
		fmt.Fprintln(out)
		input, err := r.input.ReadInput("You> ")
		if err == io.EOF || err == liner.ErrPromptAborted {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if quit := r.command(input); quit {
				return nil
			}
			continue
		}

		q := r.query
		q.Text = input
		assistantColor.Fprint(out, "Heritage AI: ")
		// A failed reply prints its advisory. The session goes on.
		_ = ask(r.cmd, r.client, q)
	}
}

// command runs one slash command and reports whether to quit.
func (r *repl) command(input string) bool {
	out, errOut := r.cmd.OutOrStdout(), r.cmd.ErrOrStderr()
	fields := strings.Fields(input)
	name, args := strings.ToLower(strings.TrimPrefix(fields[0], "/")), fields[1:]

	switch name {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(out, replHelp)
	case "lang", "language":
		next := r.query.Language.Next()
		if len(args) > 0 {
			lang, err := model.ParseLanguage(args[0])
			if err != nil {
				advisoryColor.Fprintln(errOut, err)
				return false
			}
			next = lang
		}
		r.query.Language = next
		successColor.Fprintf(out, "Language: %s (%s)\n", next.DisplayName(), next.EnglishName())
	case "clear":
		res := r.client.ClearHistory(r.cmd.Context())
		if !res.OK() {
			advisoryColor.Fprintf(errOut, "Could not clear history: %v\n", res.Err)
			return false
		}
		successColor.Fprintf(out, "Chat history cleared (%d messages)\n", res.Deleted)
	default:
		advisoryColor.Fprintf(errOut, "Unknown command /%s (try /help)\n", name)
	}
	return false
}
