// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration management for heritage.
//
// Configuration is read from ~/.heritage/config.toml (or $HERITAGE_HOME),
// filled with defaults, then overridden by HERITAGE_* environment
// variables.
//
// # Key Types
//
//   - Config: api, chat, store, log and ui sections
//   - ValidationError / ValidateErrors: field-level validation failures
//
// # Usage
//
//	cfg, err := config.Load()
//	cfg.Set("chat.language", "ta")
//	err = config.Save(cfg)
//
// Reload on edit:
//
//	config.Watch(ctx, path, func(cfg *config.Config, err error) { ... })
package config
