package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd, app := newRootCmd()
	return execute(ctx, rootCmd, app)
}

// execute runs rootCmd and releases app afterwards, also when the command
// fails and cobra skips its post-run hooks.
func execute(ctx context.Context, rootCmd *cobra.Command, app *app) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := app.Close(); closeErr != nil {
		return errors.Join(err, fmt.Errorf("close log file: %w", closeErr))
	}
	return err
}

func newRootCmd() (*cobra.Command, *app) {
	rootCmd := &cobra.Command{
		Use:           "hv",
		Short:         "HVAC service desk client (hv): sessions, services and requests",
		Long:          "hv signs you in to the HVAC service desk backend, keeps the session token in your password store, and opens the admin, customer and engineer desks from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, nil
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		app.language.Load(cmd.Context())
	}
	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newRegisterCmd(app),
		newWhoamiCmd(app),
		newSessionCmd(app),
		newOpenCmd(app),
		newDashboardCmd(app),
		newServicesCmd(app),
		newRequestsCmd(app),
		newReviewCmd(app),
		newLangCmd(app),
		newPingCmd(app),
	)

	return rootCmd, app
}
