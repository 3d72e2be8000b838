// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatstate holds the in-memory conversation list.
//
// The list is the only copy of conversation state. Views read snapshots
// through Conversations and CurrentMessages; streaming replies are applied
// by message ID so a fragment still finds its message after the user
// switches to another conversation.
//
// # Key Types
//
//   - Manager: conversation list, active index and in-flight request
//
// # Usage
//
//	m := chatstate.New(sess.Name)
//	m.LoadInitial(history.Messages, sess.Name)
//	m.AppendUserMessage("Tell me about Thanjavur")
//	reply := m.BeginAssistantMessage()
//	m.AppendAssistantFragment(reply.ID, "The Big Temple...")
package chatstate
