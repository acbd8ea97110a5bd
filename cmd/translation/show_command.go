package translation

import (
	"fmt"

	"github.com/Taichi-iskw/rmtrans/internal/config"
	"github.com/spf13/cobra"
)

// NewShowCommand creates the command that lists the translations of a content item
func NewShowCommand(services ServiceCreator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the translations of a content item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, cleanup, err := resolveServices(ctx, services)
			if err != nil {
				return err
			}
			defer cleanup()

			contentID, _ := cmd.Flags().GetInt64("contentId")
			locationID, _ := cmd.Flags().GetInt64("locationId")
			language, _ := cmd.Flags().GetString("language")
			if !cmd.Flags().Changed("language") && svc.Defaults.Language != "" {
				language = svc.Defaults.Language
			}

			plan, err := svc.Remover.Describe(ctx, contentID, locationID, language)
			if err != nil {
				return fmt.Errorf("failed to load content: %w", err)
			}

			output, err := formatter.Format(&Report{Status: StatusShown, Plan: plan})
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			writeOutput(cmd.OutOrStdout(), output)
			if _, ok := formatter.(*TextFormatter); ok {
				FormatLanguageTable(cmd.OutOrStdout(), plan)
			}
			return nil
		},
	}

	addSelectorFlags(cmd)
	cmd.Flags().String("language", config.DefaultLanguage, "Which language to display names in")
	cmd.Flags().StringP("format", "f", "text", "Output format (text|json)")
	cmd.Flags().Duration("timeout", defaultTimeout, "Maximum time the lookup may take")

	return cmd
}
