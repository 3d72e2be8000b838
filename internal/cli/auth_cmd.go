// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/heritage-tui/internal/api"
	"github.com/jeranaias/heritage-tui/internal/model"
)

// =============================================================================
// LOGIN / SIGNUP
// =============================================================================

// credentialFlags are shared by login and signup.
type credentialFlags struct {
	name     string
	email    string
	password string
}

func (f *credentialFlags) register(cmd *cobra.Command, signup bool) {
	if signup {
		cmd.Flags().StringVar(&f.name, "name", "", "display name")
	}
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "account password (prompted when omitted)")
}

// complete prompts for whatever the flags left out. Without a terminal the
// missing fields are an error.
func (f *credentialFlags) complete(signup bool) (api.Credentials, error) {
	creds := api.Credentials{
		Name:     strings.TrimSpace(f.name),
		Email:    strings.TrimSpace(f.email),
		Password: f.password,
	}

	var qs []*survey.Question
	if signup && creds.Name == "" {
		qs = append(qs, &survey.Question{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Name:"},
			Validate: survey.Required,
		})
	}
	if creds.Email == "" {
		qs = append(qs, &survey.Question{
			Name:     "email",
			Prompt:   &survey.Input{Message: "Email:"},
			Validate: survey.Required,
		})
	}
	if creds.Password == "" {
		qs = append(qs, &survey.Question{
			Name:     "password",
			Prompt:   &survey.Password{Message: "Password:"},
			Validate: survey.MinLength(api.MinPasswordLength),
		})
	}

	if len(qs) > 0 {
		if !IsTTY() {
			return creds, errors.New("missing credentials: pass --email and --password when not on a terminal")
		}
		answers := struct {
			Name     string `survey:"name"`
			Email    string `survey:"email"`
			Password string `survey:"password"`
		}{creds.Name, creds.Email, creds.Password}
		if err := survey.Ask(qs, &answers); err != nil {
			return creds, err
		}
		creds = api.Credentials{
			Name:     strings.TrimSpace(answers.Name),
			Email:    strings.TrimSpace(answers.Email),
			Password: answers.Password,
		}
	}
	return creds, creds.Validate(signup)
}

func newLoginCmd(e *env) *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate(cmd, e, &flags, false)
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newSignupCmd(e *env) *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate(cmd, e, &flags, true)
		},
	}
	flags.register(cmd, true)
	return cmd
}

func authenticate(cmd *cobra.Command, e *env, flags *credentialFlags, signup bool) error {
	creds, err := flags.complete(signup)
	if err != nil {
		return err
	}
	sessions, err := e.Sessions()
	if err != nil {
		return err
	}
	client, err := e.Client()
	if err != nil {
		return err
	}

	login := client.Login
	greeting := "Welcome back, %s!\n"
	if signup {
		login = func(ctx context.Context, email, password string) (model.Session, error) {
			return client.Signup(ctx, creds.Name, email, password)
		}
		greeting = "Welcome, %s!\n"
	}

	sess, err := login(cmd.Context(), creds.Email, creds.Password)
	if err != nil {
		return err
	}
	if err := sessions.Save(sess); err != nil {
		return err
	}
	e.logger.Info("logged in", "user", sess.UserID, "signup", signup)
	successColor.Fprintf(cmd.OutOrStdout(), greeting, sess.Name)
	return nil
}

// =============================================================================
// LOGOUT / WHOAMI
// =============================================================================

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := e.Sessions()
			if err != nil {
				return err
			}
			if err := sessions.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(e *env) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, sess, err := e.Authed()
			if err != nil {
				return err
			}
			var since time.Time
			if remote {
				profile, err := client.Me(cmd.Context())
				if err != nil {
					return err
				}
				sess = profile.Session()
				since = profile.CreatedAt
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("Name: "), sess.Name)
			if sess.Email != "" {
				fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("Email:"), sess.Email)
			}
			fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("ID:   "), mutedColor.Sprint(sess.UserID))
			if !since.IsZero() {
				fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("Since:"), since.Format("2 Jan 2006"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "ask the server instead of the saved session")
	return cmd
}

// =============================================================================
// PROFILE / ACCOUNT
// =============================================================================

func newProfileCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-name NAME",
		Short: "Change your display name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			client, _, err := e.Authed()
			if err != nil {
				return err
			}
			if err := client.UpdateProfile(cmd.Context(), name); err != nil {
				return err
			}
			if err := e.sessions.UpdateName(name); err != nil {
				return err
			}
			successColor.Fprintf(cmd.OutOrStdout(), "Name changed to %s\n", name)
			return nil
		},
	})
	return cmd
}

func newAccountCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and chat history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, sess, err := e.Authed()
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(fmt.Sprintf("Delete the account for %s and all of its history?", sess.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := client.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			if err := e.sessions.Clear(); err != nil {
				return err
			}
			e.logger.Info("account deleted", "user", sess.UserID)
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted.")
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.AddCommand(del)
	return cmd
}

// confirm asks a yes/no question, defaulting to no. Without a terminal it
// refuses rather than guessing.
func confirm(question string) (bool, error) {
	if !IsTTY() {
		return false, errors.New("confirmation needed: pass --yes when not on a terminal")
	}
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: question, Default: false}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
