// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/heritage-tui/internal/api"
	"github.com/jeranaias/heritage-tui/internal/config"
	"github.com/jeranaias/heritage-tui/internal/logging"
	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/session"
	"github.com/jeranaias/heritage-tui/internal/storage"
)

// errNotLoggedIn is returned by commands that need a session.
var errNotLoggedIn = errors.New("not logged in (run 'heritage login' first)")

// env holds what a command run needs. The store and the client are opened
// on first use so that commands such as "config path" never touch them.
type env struct {
	opts rootOptions

	cfg     *config.Config
	cfgPath string
	logger  *log.Logger
	closers []io.Closer

	sessions *session.Store
	client   *api.Client
}

// load reads the configuration, applies the persistent flags and opens the
// log.
func (e *env) load(cmd *cobra.Command) error {
	path := e.opts.configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	e.cfgPath = path

	var (
		cfg *config.Config
		err error
	)
	if e.opts.configPath != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if e.opts.apiURL != "" {
		cfg.API.BaseURL = e.opts.apiURL
	}
	if e.opts.store != "" {
		cfg.Store.Backend = e.opts.store
	}
	if e.opts.storePath != "" {
		cfg.Store.Path = e.opts.storePath
	}
	if e.opts.logLevel != "" {
		cfg.Log.Level = e.opts.logLevel
	}
	if e.opts.noColor {
		cfg.UI.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid settings")
	}
	e.cfg = cfg
	config.SetGlobal(cfg)
	setNoColor(cfg.UI.NoColor)

	return e.openLog(cmd)
}

// openLog logs to stderr with --verbose, otherwise to the log file. A log
// file that cannot be opened falls back to warnings on stderr.
func (e *env) openLog(cmd *cobra.Command) error {
	if e.opts.verbose {
		e.logger = logging.New(cmd.ErrOrStderr(), "debug")
		return nil
	}
	path, err := e.cfg.LogPath()
	if err == nil {
		logger, closer, openErr := logging.Open(path, e.cfg.Log.Level)
		if openErr == nil {
			e.logger = logger
			e.closers = append(e.closers, closer)
			return nil
		}
		err = openErr
	}
	e.logger = logging.New(cmd.ErrOrStderr(), "warn")
	e.logger.Warn("log file unavailable", "err", err)
	return nil
}

// Sessions opens the configured session store.
func (e *env) Sessions() (*session.Store, error) {
	if e.sessions != nil {
		return e.sessions, nil
	}
	backend, err := storage.ParseBackend(e.cfg.Store.Backend)
	if err != nil {
		return nil, err
	}
	path, err := e.cfg.StorePath()
	if err != nil {
		return nil, err
	}
	kv, err := storage.Open(backend, path)
	if err != nil {
		return nil, errors.Wrap(err, "opening session store")
	}
	e.closers = append(e.closers, kv)
	e.sessions = session.NewStore(kv)
	e.logger.Debug("session store open", "backend", backend, "path", path)
	return e.sessions, nil
}

// Client returns the API client, without a user.
func (e *env) Client() (*api.Client, error) {
	if e.client != nil {
		return e.client, nil
	}
	client, err := api.New(e.cfg.API.BaseURL,
		api.WithLogger(e.logger),
		api.WithUserAgent(e.cfg.API.UserAgent+"/"+Version),
	)
	if err != nil {
		return nil, err
	}
	e.client = client
	return client, nil
}

// Authed returns the client bound to the saved session.
func (e *env) Authed() (*api.Client, model.Session, error) {
	sessions, err := e.Sessions()
	if err != nil {
		return nil, model.Session{}, err
	}
	sess, err := sessions.Load()
	if err != nil {
		return nil, model.Session{}, errors.Wrap(err, "reading session")
	}
	if sess == nil {
		return nil, model.Session{}, errNotLoggedIn
	}
	client, err := e.Client()
	if err != nil {
		return nil, model.Session{}, err
	}
	client.SetUserID(sess.UserID)
	return client, *sess, nil
}

// sessionName is the saved user's name, or "" before Authed succeeded.
func (e *env) sessionName() string {
	if e.sessions == nil {
		return ""
	}
	sess, err := e.sessions.Load()
	if err != nil || sess == nil {
		return ""
	}
	return sess.Name
}

// Close releases the store and the log file. It is safe to call twice.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i].Close()
	}
	e.closers = nil
}
