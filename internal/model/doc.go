// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the heritage client:
// sessions, messages, conversations and reply languages.
//
// # Key Types
//
//   - Message: one chat message, user or assistant authored
//   - Conversation: an ordered list of messages shown as one sidebar entry
//   - Session: the cached identity of the logged-in user
//   - Language: a reply language (en, ta, hi)
//
// # Usage
//
//	conv := model.NewConversation(model.NewChatMessage(sess.Name))
//	conv.Messages = append(conv.Messages, model.NewUserMessage("Tell me about Thanjavur"))
//	fmt.Println(conv.Category(), conv.Preview())
package model
