package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	deskrender "github.com/hvacdesk/hv/internal/adapters/render/desk"
	"github.com/hvacdesk/hv/internal/application"
	"github.com/hvacdesk/hv/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var (
		email         string
		password      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the service desk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				read, err := readSecretLine(cmd)
				if err != nil {
					return err
				}
				password = read
			}
			if password == "" {
				return errors.New("a password is required: use --password or --password-stdin")
			}

			var result application.LoginResult
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Signing in...", func(ctx context.Context) error {
				result = app.sessions.Login(ctx, domain.Credentials{Identifier: email, Secret: password})
				return nil
			})
			if err != nil {
				return err
			}
			if !result.Success {
				return errors.New(result.Error)
			}

			if err := app.print(cmd, deskrender.SessionView{Session: result.Session}); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "-> %s\n", result.Navigate.Route())
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	return cmd
}

func readSecretLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.sessions.Logout(cmd.Context())
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return err
		},
	}
}

func newRegisterCmd(app *app) *cobra.Command {
	var profile domain.Profile

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a service desk account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := domain.ParseRole(profile.Role); !ok {
				return fmt.Errorf("unsupported role %q: use Admin, Customer or Engineer", profile.Role)
			}

			var result application.RegisterResult
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Creating account...", func(ctx context.Context) error {
				result = app.sessions.Register(ctx, profile)
				return nil
			})
			if err != nil {
				return err
			}
			if !result.Success {
				return errors.New(result.Error)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s, sign in with `hv login --email %s`\n", profile.UserName, profile.Email)
			return err
		},
	}

	cmd.Flags().StringVar(&profile.FullName, "full-name", "", "Full name")
	cmd.Flags().StringVar(&profile.UserName, "username", "", "Username")
	cmd.Flags().StringVar(&profile.Email, "email", "", "Email")
	cmd.Flags().StringVar(&profile.Password, "password", "", "Password")
	cmd.Flags().StringVar(&profile.PhoneNumber, "phone", "", "Phone number")
	cmd.Flags().StringVar(&profile.Address, "address", "", "Address")
	cmd.Flags().StringVar(&profile.Role, "role", string(domain.RoleCustomer), "Role: Admin, Customer or Engineer")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newWhoamiCmd(app *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := app.session(cmd.Context())
			if jsonOutput {
				return printJSON(cmd, session.Identity)
			}
			return app.print(cmd, deskrender.SessionView{Session: session, Language: app.language.Current()})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the identity as JSON")

	return cmd
}

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect the stored session",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Re-check the stored token with the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.session(cmd.Context())

			var session domain.Session
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Checking session...", func(ctx context.Context) error {
				session = app.sessions.Revalidate(ctx)
				return nil
			})
			if err != nil {
				return err
			}

			if err := app.print(cmd, deskrender.SessionView{Session: session}); err != nil {
				return err
			}
			if !session.IsAuthenticated() {
				return errors.New("no valid session, sign in with `hv login`")
			}
			return nil
		},
	})

	return cmd
}
