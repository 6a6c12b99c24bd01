package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	deskrender "github.com/hvacdesk/hv/internal/adapters/render/desk"
	"github.com/hvacdesk/hv/internal/domain"
	"github.com/spf13/cobra"
)

const preferredTimeLayout = "2006-01-02T15:04"

func newRequestsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Work with service requests",
	}

	cmd.AddCommand(
		newRequestsListCmd(app),
		newRequestsCreateCmd(app),
		newRequestsStatusCmd(app),
		newRequestsPriceCmd(app),
		newRequestsAssignCmd(app),
	)

	return cmd
}

func newRequestsListCmd(app *app) *cobra.Command {
	var (
		role       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the requests visible to your role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.session(cmd.Context())

			var requests []domain.ServiceRequest
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching requests...", func(ctx context.Context) error {
				listed, err := app.desk.ListRequests(ctx, domain.RoleName(role))
				requests = listed
				return err
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd, requests)
			}
			shown := domain.RoleName(role)
			if shown == "" {
				shown, _ = app.sessions.Snapshot().Roles().Home()
			}
			return app.print(cmd, deskrender.RequestsView{Role: shown, Requests: requests})
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Desk to list from: Admin, Customer or Engineer (default: your home role)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print requests as JSON")

	return cmd
}

func newRequestsCreateCmd(app *app) *cobra.Command {
	var (
		request   domain.NewServiceRequest
		serviceID string
		preferred string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Request a service visit (Customer)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			request.ServiceID = domain.ServiceID(serviceID)
			if preferred != "" {
				parsed, err := time.ParseInLocation(preferredTimeLayout, preferred, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --preferred value %q: want YYYY-MM-DDTHH:MM", preferred)
				}
				request.PreferredDateTime = parsed
			}

			app.session(cmd.Context())
			created, err := app.desk.CreateRequest(cmd.Context(), request)
			if err != nil {
				return err
			}
			return app.print(cmd, deskrender.RequestsView{Role: domain.RoleCustomer, Requests: []domain.ServiceRequest{created}})
		},
	}

	cmd.Flags().StringVar(&serviceID, "service", "", "Service ID")
	cmd.Flags().IntVar(&request.ACCount, "ac-count", 1, "Number of AC units")
	cmd.Flags().StringVar(&preferred, "preferred", "", "Preferred visit time, YYYY-MM-DDTHH:MM")
	cmd.Flags().StringVar(&request.Address, "address", "", "Visit address")
	cmd.Flags().StringVar(&request.Notes, "notes", "", "Notes for the engineer")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}

func newRequestsStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <request-id> <status>",
		Short: "Update a request status (Engineer)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseRequestStatus(args[1])
			if err != nil {
				return err
			}

			app.session(cmd.Context())
			if err := app.desk.UpdateRequestStatus(cmd.Context(), domain.RequestID(args[0]), status); err != nil {
				return err
			}
			return printUpdated(cmd, app)
		},
	}
}

func newRequestsPriceCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "price <request-id> <final-price>",
		Short: "Set the final price of a request (Engineer)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid final price %q", args[1])
			}

			app.session(cmd.Context())
			if err := app.desk.UpdateRequestPrice(cmd.Context(), domain.RequestID(args[0]), price); err != nil {
				return err
			}
			return printUpdated(cmd, app)
		},
	}
}

func newRequestsAssignCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <request-id> <engineer-id>",
		Short: "Assign an engineer to a request (Admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.session(cmd.Context())
			if err := app.desk.AssignEngineer(cmd.Context(), domain.RequestID(args[0]), domain.UserID(args[1])); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.language.T("assignSuccess"))
			return err
		},
	}
}

func newReviewCmd(app *app) *cobra.Command {
	var review domain.Review

	cmd := &cobra.Command{
		Use:   "review <request-id>",
		Short: "Review a completed request (Customer)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			review.RequestID = domain.RequestID(args[0])

			app.session(cmd.Context())
			if err := app.desk.CreateReview(cmd.Context(), review); err != nil {
				return err
			}
			return printUpdated(cmd, app)
		},
	}

	cmd.Flags().IntVar(&review.Rating, "rating", 5, "Rating from 1 to 5")
	cmd.Flags().StringVar(&review.Comment, "comment", "", "Review comment")

	return cmd
}

func printUpdated(cmd *cobra.Command, app *app) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), app.language.T("updateSuccess"))
	return err
}
