package cmd

import (
	"context"
	"fmt"

	deskrender "github.com/hvacdesk/hv/internal/adapters/render/desk"
	"github.com/hvacdesk/hv/internal/application"
	"github.com/hvacdesk/hv/internal/domain"
	"github.com/spf13/cobra"
)

func newOpenCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open [route]",
		Short: "Resolve a desk route for the current session",
		Long:  "open follows the route guard from the given path (default \"/\") to the page the current session may see, and shows the dashboard when it lands on one.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			route := domain.RouteHome
			if len(args) == 1 {
				route = args[0]
			}

			app.session(cmd.Context())
			resolution, err := app.guard.Resolve(route)
			if err != nil {
				return err
			}
			if err := app.print(cmd, deskrender.ResolutionView{Resolution: resolution}); err != nil {
				return err
			}

			if resolution.Decision.Outcome != domain.OutcomeRender || !isLandingRoute(resolution.Path) {
				return nil
			}
			return printDashboard(cmd, app)
		},
	}
}

func newDashboardCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard of your role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.session(cmd.Context())
			return printDashboard(cmd, app)
		},
	}
}

func printDashboard(cmd *cobra.Command, app *app) error {
	var dashboard application.Dashboard
	err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Loading dashboard...", func(ctx context.Context) error {
		loaded, err := app.desk.Dashboard(ctx)
		dashboard = loaded
		return err
	})
	if err != nil {
		return err
	}

	return app.print(cmd, deskrender.DashboardView{Dashboard: dashboard})
}

func isLandingRoute(path string) bool {
	for _, role := range []domain.RoleName{domain.RoleAdmin, domain.RoleCustomer, domain.RoleEngineer} {
		if role.LandingRoute() == path {
			return true
		}
	}
	return false
}

func newPingCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				report   domain.ConnectionReport
				probeErr error
			)
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Testing connection...", func(ctx context.Context) error {
				report, probeErr = app.desk.CheckConnection(ctx)
				return nil
			})
			if err != nil {
				return err
			}
			if report.BaseURL == "" {
				report.BaseURL = app.backend.BaseURL()
			}

			if err := app.print(cmd, deskrender.ConnectionView{Report: report, Err: probeErr}); err != nil {
				return err
			}
			if !report.Reachable {
				return fmt.Errorf("backend %s is unreachable", report.BaseURL)
			}
			return nil
		},
	}
}
