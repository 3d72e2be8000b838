// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// lexerNames maps formats to chroma lexer names.
var lexerNames = map[Format]string{
	FormatHTML:     "html",
	FormatMarkdown: "markdown",
	FormatJSON:     "json",
	FormatYAML:     "yaml",
}

// Highlight writes exported content to w with terminal syntax highlighting.
// Used when an export goes to a TTY instead of a file.
func Highlight(w io.Writer, content []byte, format Format) error {
	lexer := lexers.Get(lexerNames[format])
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, string(content))
	if err != nil {
		_, werr := w.Write(content)
		return werr
	}
	return formatter.Format(w, style, iterator)
}
