// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/heritage-tui/internal/api"
	"github.com/jeranaias/heritage-tui/internal/model"
)

// queryFlags override the configured language and position.
type queryFlags struct {
	lang string
	lat  float64
	lon  float64
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.lang, "lang", "l", "", "reply language: en, ta or hi")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude sent with the question")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "longitude sent with the question")
}

// query builds the template for every question in this run. A position
// is only sent when both coordinates are known.
func (f *queryFlags) query(cmd *cobra.Command, e *env) (api.Query, error) {
	q := api.Query{
		Language:  e.cfg.Language(),
		Latitude:  e.cfg.Chat.Latitude,
		Longitude: e.cfg.Chat.Longitude,
	}
	if f.lang != "" {
		lang, err := model.ParseLanguage(f.lang)
		if err != nil {
			return q, err
		}
		q.Language = lang
	}

	latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
	if latSet != lonSet {
		return q, errors.New("--lat and --lon must be given together")
	}
	if latSet {
		lat, lon := f.lat, f.lon
		q.Latitude, q.Longitude = &lat, &lon
	}
	if q.Latitude == nil || q.Longitude == nil {
		q.Latitude, q.Longitude = nil, nil
	}
	return q, nil
}

func newAskCmd(e *env) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask one question and stream the reply",
		Example: `  heritage ask "Tell me about the Brihadeeswara Temple"
  heritage ask --lang ta "மதுரையில் என்ன பார்க்கலாம்?"
  heritage ask --lat 13.0827 --lon 80.2707 "What's near me?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query(cmd, e)
			if err != nil {
				return err
			}
			q.Text = strings.TrimSpace(strings.Join(args, " "))
			if q.Text == "" {
				return api.ErrEmptyQuery
			}
			client, _, err := e.Authed()
			if err != nil {
				return err
			}
			return ask(cmd, client, q)
		},
	}
	flags.register(cmd)
	return cmd
}

// ask streams one reply to stdout. An advisory goes to stderr and the
// underlying failure is returned.
func ask(cmd *cobra.Command, client *api.Client, q api.Query) error {
	out := cmd.OutOrStdout()
	streamed := false
	reply := client.Ask(cmd.Context(), q, func(fragment string) {
		streamed = true
		replyColor.Fprint(out, fragment)
	})
	if streamed {
		fmt.Fprintln(out)
	}
	if reply.Advisory() {
		printAdvisory(cmd.ErrOrStderr(), reply.Text)
		return errors.Wrap(reply.Err, "chat failed")
	}
	return nil
}

func printAdvisory(w io.Writer, text string) {
	advisoryColor.Fprintln(w, text)
}
