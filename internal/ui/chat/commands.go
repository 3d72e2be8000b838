// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jeranaias/heritage-tui/internal/export"
	"github.com/jeranaias/heritage-tui/internal/model"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// Command is a slash command typed into the input box.
type Command struct {
	Name        string
	Args        string
	Description string
	run         func(m *Model, args []string) tea.Cmd
}

// commandTable lists the slash commands in help order.
func commandTable() []Command {
	return []Command{
		{Name: "new", Description: "Start a new chat", run: (*Model).cmdNew},
		{Name: "clear", Description: "Delete your chat history and clear this chat", run: (*Model).cmdClear},
		{Name: "lang", Args: "[en|ta|hi]", Description: "Set or cycle the reply language", run: (*Model).cmdLang},
		{Name: "export", Args: "[path]", Description: "Save this chat (.md .html .json .yaml)", run: (*Model).cmdExport},
		{Name: "logout", Description: "Sign out", run: (*Model).cmdLogout},
		{Name: "help", Description: "Show commands and keys", run: (*Model).cmdHelp},
	}
}

// parseCommand splits "/name arg..." into its parts. ok is false when input
// is not a slash command.
func parseCommand(input string) (name string, args []string, ok bool) {
	if !strings.HasPrefix(input, "/") {
		return "", nil, false
	}
	fields := strings.Fields(input[1:])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// runCommand executes a parsed slash command.
func (m *Model) runCommand(name string, args []string) tea.Cmd {
	for _, c := range commandTable() {
		if c.Name == name {
			m.logger.Debug("slash command", "name", name, "args", len(args))
			return c.run(m, args)
		}
	}
	return m.notify(fmt.Sprintf("Unknown command /%s (try /help)", name), true)
}

func (m *Model) cmdNew([]string) tea.Cmd {
	m.newChat()
	return nil
}

// cmdClear deletes the server history first. The current chat is reset only
// once the server confirms.
func (m *Model) cmdClear([]string) tea.Cmd {
	if m.state.IsPending() {
		return m.notify("Please wait for the current reply to finish", true)
	}
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		return HistoryClearedMsg{Result: backend.ClearHistory(ctx)}
	}
}

func (m *Model) cmdLang(args []string) tea.Cmd {
	if len(args) == 0 {
		m.SetLanguage(m.language.Next())
		return m.notify("Replies in "+m.language.EnglishName(), false)
	}
	lang, err := model.ParseLanguage(args[0])
	if err != nil {
		return m.notify(err.Error(), true)
	}
	m.SetLanguage(lang)
	return m.notify("Replies in "+lang.EnglishName(), false)
}

func (m *Model) cmdExport(args []string) tea.Cmd {
	conv, ok := m.state.Current()
	if !ok {
		return m.notify("Nothing to export", true)
	}

	path := ""
	format := export.FormatMarkdown
	if len(args) > 0 {
		path = args[0]
		if ext := filepath.Ext(path); ext != "" {
			f, err := export.ParseFormat(ext)
			if err != nil {
				return m.notify(err.Error(), true)
			}
			format = f
		}
	}

	opts := export.DefaultOptions()
	opts.UserName = m.session.Name
	if m.exportDir != "" {
		opts.OutputDir = m.exportDir
	}

	return func() tea.Msg {
		written, err := exportConversation(conv, format, path, opts)
		if err != nil {
			return NoticeMsg{Text: err.Error(), IsError: true}
		}
		return NoticeMsg{Text: "Exported to " + written}
	}
}

// exportConversation writes conv to path, or to a generated file name in
// opts.OutputDir when path is empty.
func exportConversation(conv model.Conversation, format export.Format, path string, opts *export.Options) (string, error) {
	exporter, err := export.New(format, opts)
	if err != nil {
		return "", err
	}
	if path == "" {
		return export.ExportToFile(conv, exporter, opts)
	}
	content, err := exporter.Export(conv)
	if err != nil {
		return "", errors.Wrap(err, "export failed")
	}
	if err := export.WriteFile(path, content); err != nil {
		return "", err
	}
	return path, nil
}

func (m *Model) cmdLogout([]string) tea.Cmd {
	return func() tea.Msg { return LogoutMsg{} }
}

func (m *Model) cmdHelp([]string) tea.Cmd {
	m.showHelp = true
	return nil
}
