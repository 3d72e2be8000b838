// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package device defines the ports for location, speech output and speech
// input, with the implementations available to a terminal client.
//
// # Key Types
//
//   - Locator: StaticLocator from configuration, or NoLocator
//   - Speaker: CommandSpeaker (espeak-ng, espeak or say), or NoSpeaker
//   - Listener: NoListener; a terminal has no speech recognizer
package device
