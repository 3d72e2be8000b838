// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/heritage-tui/internal/model"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HERITAGE_HOME", dir)
	for _, k := range []string{
		"HERITAGE_API_URL", "HERITAGE_LANGUAGE", "HERITAGE_LATITUDE", "HERITAGE_LONGITUDE",
		"HERITAGE_STORE", "HERITAGE_STORE_PATH", "HERITAGE_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	os.Unsetenv("NO_COLOR")
	return dir
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, model.LanguageEnglish, cfg.Language())
	assert.Equal(t, "bolt", cfg.Store.Backend)
	assert.True(t, cfg.UI.Markdown)
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().API, cfg.API)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := isolate(t)

	cfg := Default()
	lat, lon := 10.7867, 79.1378
	cfg.Chat.Language = "ta"
	cfg.Chat.Latitude, cfg.Chat.Longitude = &lat, &lon
	cfg.Store.Backend = "sqlite"
	cfg.UI.Theme = "light"
	require.NoError(t, Save(cfg))

	path := filepath.Join(dir, "config.toml")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, model.LanguageTamil, loaded.Language())
	require.NotNil(t, loaded.Chat.Latitude)
	assert.InDelta(t, lat, *loaded.Chat.Latitude, 1e-9)
	assert.Equal(t, "sqlite", loaded.Store.Backend)
	assert.Equal(t, "light", loaded.UI.Theme)
}

func TestLoadFrom_FillsDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "partial.toml")
	require.NoError(t, os.WriteFile(path, []byte("[chat]\nlanguage = \"hi\"\n[api]\nbase_url = \"\"\n"), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "hi", cfg.Chat.Language)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "bolt", cfg.Store.Backend)
}

func TestReadFile_IgnoresEnv(t *testing.T) {
	isolate(t)
	t.Setenv("HERITAGE_API_URL", "http://override:9000")
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL, "missing file gives defaults")

	require.NoError(t, os.WriteFile(path, []byte("[chat]\nlanguage = \"ta\"\n"), 0600))
	cfg, err = ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ta", cfg.Chat.Language)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
}

func TestLoadFrom_Invalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[chat]\nlanguage = \"fr\"\n"), 0600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat.language")

	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))
	_, err = LoadFrom(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.API.BaseURL = "ftp://x" }, "api.base_url"},
		{"no host", func(c *Config) { c.API.BaseURL = "http://" }, "api.base_url"},
		{"language", func(c *Config) { c.Chat.Language = "xx" }, "chat.language"},
		{"lat only", func(c *Config) { c.Chat.Latitude = f(1) }, "chat.latitude"},
		{"lat range", func(c *Config) { c.Chat.Latitude, c.Chat.Longitude = f(91), f(0) }, "chat.latitude"},
		{"lon range", func(c *Config) { c.Chat.Latitude, c.Chat.Longitude = f(0), f(-181) }, "chat.longitude"},
		{"backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			require.NotEmpty(t, verrs)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("HERITAGE_API_URL", "https://heritage.example.org")
	t.Setenv("HERITAGE_LANGUAGE", "tamil")
	t.Setenv("HERITAGE_LATITUDE", "13.05")
	t.Setenv("HERITAGE_LONGITUDE", "80.25")
	t.Setenv("HERITAGE_STORE", "json")
	t.Setenv("HERITAGE_STORE_PATH", "/tmp/s.json")
	t.Setenv("HERITAGE_LOG_LEVEL", "debug")
	t.Setenv("NO_COLOR", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://heritage.example.org", cfg.API.BaseURL)
	assert.Equal(t, model.LanguageTamil, cfg.Language())
	require.NotNil(t, cfg.Chat.Longitude)
	assert.InDelta(t, 80.25, *cfg.Chat.Longitude, 1e-9)
	assert.Equal(t, "json", cfg.Store.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.UI.NoColor)

	path, err := cfg.StorePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/s.json", path)
}

func TestStorePath_Default(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	cfg.Store.Backend = "sqlite"

	path, err := cfg.StorePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "session.db"), path)

	logPath, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "heritage.log"), logPath)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("chat.language", "hi"))
	v, err := cfg.Get("chat.language")
	require.NoError(t, err)
	assert.Equal(t, "hi", v)

	require.NoError(t, cfg.Set("ui.markdown", "false"))
	assert.False(t, cfg.UI.Markdown)
	require.NoError(t, cfg.Set("ui.speak-replies", "yes"))
	assert.True(t, cfg.UI.SpeakReplies)

	require.NoError(t, cfg.Set("chat.latitude", "11.5"))
	v, err = cfg.Get("chat.latitude")
	require.NoError(t, err)
	assert.Equal(t, 11.5, v)

	require.NoError(t, cfg.Set("chat.latitude", ""))
	assert.Nil(t, cfg.Chat.Latitude)
	v, err = cfg.Get("chat.latitude")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, cfg.Set("api.base_url", "http://10.0.0.2:8000"))
	assert.Equal(t, "http://10.0.0.2:8000", cfg.API.BaseURL)

	assert.Error(t, cfg.Set("nope.key", "x"))
	assert.Error(t, cfg.Set("ui.markdown", "maybe"))
	assert.Error(t, cfg.Set("chat", "x"))
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestGetAllKeys(t *testing.T) {
	keys := GetAllKeys()
	assert.Contains(t, keys, "api.base_url")
	assert.Contains(t, keys, "chat.latitude")
	assert.Contains(t, keys, "ui.speak_replies")

	cfg := Default()
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestClone(t *testing.T) {
	cfg := Default()
	lat, lon := 1.0, 2.0
	cfg.Chat.Latitude, cfg.Chat.Longitude = &lat, &lon

	clone := cfg.Clone()
	*clone.Chat.Latitude = 5
	clone.API.BaseURL = "http://other"

	assert.Equal(t, 1.0, *cfg.Chat.Latitude)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
}

func TestWatch(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveTo(Default(), path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	require.NoError(t, Watch(ctx, path, func(cfg *Config, err error) {
		if err == nil {
			changes <- cfg
		}
	}))

	cfg := Default()
	cfg.Chat.Language = "ta"
	require.NoError(t, SaveTo(cfg, path))

	select {
	case got := <-changes:
		assert.Equal(t, "ta", got.Chat.Language)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after save")
	}
}

// TestConfig_ConcurrentAccess checks Global and SetGlobal under -race.
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestConfig_ConcurrentReload(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()
	_ = Global()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = ReloadGlobal()
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
