package translation

import (
	"fmt"
	"io"
	"strings"

	"github.com/Taichi-iskw/rmtrans/internal/config"
	"github.com/Taichi-iskw/rmtrans/internal/console"
	apperrors "github.com/Taichi-iskw/rmtrans/internal/errors"
	"github.com/Taichi-iskw/rmtrans/internal/service/translation"
	"github.com/spf13/cobra"
)

const removeTitle = "Warning! Content Translation Removal ..."

// NewRemoveCommand creates the command that removes one translation from a content item
func NewRemoveCommand(services ServiceCreator, use string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: "Remove a translation from a content item",
		Long: `Remove a single translation from a multi-language content item.

The content is replaced by a new published copy without the translation.
The copy takes over the original's location, the original is deleted and
the cache of the affected locations is purged.`,
		Example: `  rmtrans translation remove --contentId=42 --removeLanguage=ger-DE
  rmtrans remove-translation --locationId=60 --removeLanguage=fre-FR --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, services)
		},
	}

	addSelectorFlags(cmd)
	cmd.Flags().String("removeLanguage", "", "Which language to remove. Example --removeLanguage=ger-DE")
	cmd.Flags().String("language", config.DefaultLanguage, "Which language to display names in")
	cmd.Flags().Int64("adminUserID", config.DefaultAdminUserID, "User id the new content is created as")
	cmd.Flags().Bool("disableRemoveConfirmation", false, "Skip the confirmation prompt")
	cmd.Flags().Bool("dry-run", false, "Show what would be changed without modifying content")
	cmd.Flags().Bool("compensate", false, "Undo the replacement when a step before the original is deleted fails")
	cmd.Flags().StringP("format", "f", "text", "Output format (text|json)")
	cmd.Flags().Duration("timeout", defaultTimeout, "Maximum time the removal may take")
	_ = cmd.MarkFlagRequired("removeLanguage")

	return cmd
}

func runRemove(cmd *cobra.Command, services ServiceCreator) error {
	format, _ := cmd.Flags().GetString("format")
	formatter, err := GetFormatter(format)
	if err != nil {
		return err
	}
	jsonOutput := strings.EqualFold(format, "json")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	svc, cleanup, err := resolveServices(ctx, services)
	if err != nil {
		return err
	}
	defer cleanup()

	req := removeRequestFromFlags(cmd, svc.Defaults)

	// operator messages go to stderr when stdout carries JSON
	out := cmd.OutOrStdout()
	if jsonOutput {
		out = cmd.ErrOrStderr()
	}

	console.Title(out, removeTitle)

	plan, err := svc.Remover.Prepare(ctx, req)
	if plan != nil {
		printPlanHeader(out, plan)
	}
	if err != nil {
		status, ok := validationStatus(err)
		if !ok || plan == nil {
			return err
		}
		switch status {
		case StatusTranslationNotFound:
			console.Errorln(out, "No translation for %s found.", req.RemoveLanguage)
		case StatusLastTranslation:
			console.Errorln(out, "No translations left if %s is removed.", req.RemoveLanguage)
		}
		return emit(cmd, formatter, jsonOutput, &Report{Status: status, Plan: plan, Error: newReportError(err)})
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		FormatPlan(out, plan)
		return emit(cmd, formatter, jsonOutput, &Report{Status: StatusDryRun, Plan: plan})
	}

	if skip, _ := cmd.Flags().GetBool("disableRemoveConfirmation"); !skip {
		prompter := console.NewPrompter(cmd.InOrStdin(), out)
		confirmed, err := prompter.Confirm(
			fmt.Sprintf("Please confirm you wish to remove the %s translation? [Yes, No] ", req.RemoveLanguage), false)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted, no content was modified.")
			return emit(cmd, formatter, jsonOutput, &Report{Status: StatusDeclined, Plan: plan})
		}
	}

	result, err := svc.Remover.Execute(ctx, plan)
	if err != nil {
		report := &Report{Status: StatusFailed, Plan: plan, Result: result, Error: newReportError(err)}
		if apperrors.HasCode(err, apperrors.CodeCachePurgeFailed) {
			report.Status = StatusPurgeFailed
			fmt.Fprintln(out, console.Comment("The translation was removed"))
		}
		console.Errorln(out, "%s", apperrors.MessageOf(err))
		if err := emit(cmd, formatter, jsonOutput, report); err != nil {
			return err
		}
		fmt.Fprintln(out, "\nCommand execution completed with errors.")
		return nil
	}

	fmt.Fprintln(out, console.Comment("The translation was removed"))
	if err := emit(cmd, formatter, jsonOutput, &Report{Status: StatusRemoved, Plan: plan, Result: result}); err != nil {
		return err
	}
	fmt.Fprintln(out, "\nCommand execution completed successfully!")
	return nil
}

// removeRequestFromFlags builds the request, taking configured defaults for flags left unset
func removeRequestFromFlags(cmd *cobra.Command, defaults config.DefaultsConfig) translation.RemoveRequest {
	flags := cmd.Flags()

	req := translation.RemoveRequest{}
	req.ContentID, _ = flags.GetInt64("contentId")
	req.LocationID, _ = flags.GetInt64("locationId")
	req.RemoveLanguage, _ = flags.GetString("removeLanguage")
	req.LocaleLanguage, _ = flags.GetString("language")
	req.AdminUserID, _ = flags.GetInt64("adminUserID")
	req.Compensate, _ = flags.GetBool("compensate")

	if !flags.Changed("language") && defaults.Language != "" {
		req.LocaleLanguage = defaults.Language
	}
	if !flags.Changed("adminUserID") && defaults.AdminUserID != 0 {
		req.AdminUserID = defaults.AdminUserID
	}
	return req
}

func printPlanHeader(w io.Writer, plan *translation.Plan) {
	fmt.Fprintf(w, "Processing content location: %s\n", console.Info("%s", plan.ContentName))
	fmt.Fprintf(w, "Content of type %s is translated in %s\n",
		console.Info("%s", plan.ContentTypeName), strings.Join(plan.LanguageCodes, ", "))
}

// validationStatus maps precondition failures that leave the content untouched
func validationStatus(err error) (Status, bool) {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeTranslationNotFound:
		return StatusTranslationNotFound, true
	case apperrors.CodeLastTranslation:
		return StatusLastTranslation, true
	}
	return "", false
}

// emit writes the report. Text reports only carry ids worth following up,
// so they are skipped for outcomes without a result.
func emit(cmd *cobra.Command, formatter Formatter, jsonOutput bool, report *Report) error {
	if !jsonOutput && report.Result == nil {
		return nil
	}
	output, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	writeOutput(cmd.OutOrStdout(), output)
	return nil
}
