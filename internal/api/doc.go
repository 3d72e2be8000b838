// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the heritage assistant backend.
//
// The backend exposes JSON auth endpoints, a JSON history endpoint and a
// streamed chat endpoint whose body is a sequence of lines of the form
//
//	data: {"text": "..."}
//
// separated by blank lines. The stream ends when the server closes it.
//
// # Key Types
//
//   - Client: authenticated access to every endpoint
//   - StreamDecoder: turns a chat body into fragments
//   - HistoryResult, ClearResult: explicit outcomes for history calls
//   - AuthError, StatusError, StreamError: typed failures
//
// # Usage
//
//	client, err := api.New("http://localhost:8000", api.WithLogger(logger))
//	sess, err := client.Login(ctx, email, password)
//	reply := client.Ask(ctx, api.Query{Text: "Temples in Madurai", Language: model.LanguageEnglish},
//	    func(frag string) { fmt.Print(frag) })
//
// Chat failures never surface as errors to the UI. Ask and Send replace the
// reply with one of the Advisory strings instead.
package api
