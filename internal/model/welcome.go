// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

const greeting = "🙏 வணக்கம்"

// WelcomeText is shown when a session starts with no history and after the
// current conversation is cleared.
func WelcomeText(name string) string {
	return greet(name) + " Welcome to Tamil Nadu Heritage AI Assistant! " +
		"I can help you discover amazing heritage sites, temples, and tourist spots. Ask me anything!"
}

// NewChatText opens every conversation started with "new chat".
func NewChatText(name string) string {
	return greet(name) + " How can I help you explore Tamil Nadu's heritage today?"
}

// NewWelcomeMessage returns an assistant message carrying WelcomeText.
func NewWelcomeMessage(name string) Message {
	return NewMessage(RoleAssistant, WelcomeText(name))
}

// NewChatMessage returns an assistant message carrying NewChatText.
func NewChatMessage(name string) Message {
	return NewMessage(RoleAssistant, NewChatText(name))
}

func greet(name string) string {
	if name == "" {
		return greeting + "!"
	}
	return greeting + " " + name + "!"
}
