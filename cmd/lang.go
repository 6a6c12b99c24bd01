package cmd

import (
	"fmt"

	"github.com/hvacdesk/hv/internal/domain"
	"github.com/spf13/cobra"
)

func newLangCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lang",
		Short: "Show or change the display language",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printLanguage(cmd, app, app.language.Current())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <language>",
			Short: "Set the display language (en, ar, or a tag such as ar-EG)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				lang, err := app.language.Set(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printLanguage(cmd, app, lang)
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch between English and Arabic",
			RunE: func(cmd *cobra.Command, _ []string) error {
				lang, err := app.language.Toggle(cmd.Context())
				if err != nil {
					return err
				}
				return printLanguage(cmd, app, lang)
			},
		},
	)

	return cmd
}

func printLanguage(cmd *cobra.Command, app *app, lang domain.Language) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", app.language.T("language"), lang, lang.Direction())
	return err
}
