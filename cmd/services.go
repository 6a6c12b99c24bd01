package cmd

import (
	"context"
	"fmt"

	deskrender "github.com/hvacdesk/hv/internal/adapters/render/desk"
	"github.com/hvacdesk/hv/internal/domain"
	"github.com/spf13/cobra"
)

func newServicesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Browse and manage the service catalog",
	}

	cmd.AddCommand(newServicesListCmd(app), newServicesGetCmd(app), newServicesCreateCmd(app))

	return cmd
}

func newServicesListCmd(app *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available services",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.session(cmd.Context())

			var services []domain.Service
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching services...", func(ctx context.Context) error {
				listed, err := app.desk.ListServices(ctx)
				services = listed
				return err
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd, services)
			}
			return app.print(cmd, deskrender.ServicesView{Services: services})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print services as JSON")

	return cmd
}

func newServicesGetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <service-id>",
		Short: "Show one service (Admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.session(cmd.Context())

			service, err := app.desk.GetService(cmd.Context(), domain.ServiceID(args[0]))
			if err != nil {
				return err
			}
			return app.print(cmd, deskrender.ServicesView{Services: []domain.Service{service}})
		},
	}
}

func newServicesCreateCmd(app *app) *cobra.Command {
	var service domain.Service

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a service to the catalog (Admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.session(cmd.Context())

			created, err := app.desk.CreateService(cmd.Context(), service)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", app.language.T("createSuccess"), created.Code)
			return err
		},
	}

	cmd.Flags().StringVar(&service.Code, "code", "", "Service code")
	cmd.Flags().StringVar(&service.NameEn, "name-en", "", "English name")
	cmd.Flags().StringVar(&service.NameAr, "name-ar", "", "Arabic name")
	cmd.Flags().StringVar(&service.DescriptionEn, "description-en", "", "English description")
	cmd.Flags().StringVar(&service.DescriptionAr, "description-ar", "", "Arabic description")
	cmd.Flags().Float64Var(&service.BasePrice, "base-price", 0, "Base price")
	cmd.Flags().BoolVar(&service.IsActive, "active", true, "Offer the service to customers")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
