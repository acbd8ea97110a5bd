package translation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/Taichi-iskw/rmtrans/internal/errors"
	"github.com/Taichi-iskw/rmtrans/internal/service/translation"
	"github.com/olekukonko/tablewriter"
)

// Status is the outcome of a removal command
type Status string

const (
	StatusRemoved             Status = "removed"
	StatusFailed              Status = "failed"
	StatusPurgeFailed         Status = "purge_failed"
	StatusDeclined            Status = "declined"
	StatusDryRun              Status = "dry_run"
	StatusTranslationNotFound Status = "translation_not_found"
	StatusLastTranslation     Status = "last_translation"
	StatusShown               Status = "shown"
)

// ReportError is the machine readable form of a reported error
type ReportError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Report is what a translation command prints when it ends
type Report struct {
	Status Status              `json:"status"`
	Plan   *translation.Plan   `json:"plan,omitempty"`
	Result *translation.Result `json:"result,omitempty"`
	Error  *ReportError        `json:"error,omitempty"`
}

// newReportError converts err into a ReportError, nil for a nil err
func newReportError(err error) *ReportError {
	if err == nil {
		return nil
	}
	code := apperrors.CodeOf(err)
	if code == "" {
		code = apperrors.CodeInternal
	}
	return &ReportError{Code: code, Message: apperrors.MessageOf(err)}
}

// Formatter defines interface for output formatting
type Formatter interface {
	Format(report *Report) (string, error)
}

// TextFormatter formats output as plain text
type TextFormatter struct{}

// Format lists the ids an operator needs to follow up on the report
func (f *TextFormatter) Format(report *Report) (string, error) {
	var output strings.Builder

	if plan := report.Plan; plan != nil {
		output.WriteString(fmt.Sprintf("Content ID: %d\n", plan.ContentID))
		output.WriteString(fmt.Sprintf("Name: %s\n", plan.ContentName))
		output.WriteString(fmt.Sprintf("Content Type: %s\n", plan.ContentTypeName))
		output.WriteString(fmt.Sprintf("Main Language: %s\n", plan.MainLanguage))
		output.WriteString(fmt.Sprintf("Main Location ID: %d\n", plan.MainLocationID))
		output.WriteString(fmt.Sprintf("Parent Location ID: %d\n", plan.ParentLocationID))
		output.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(plan.LanguageCodes, ", ")))
	}

	if result := report.Result; result != nil {
		output.WriteString(fmt.Sprintf("Stage: %s\n", result.Stage))
		if result.NewContentID != 0 {
			output.WriteString(fmt.Sprintf("New Content ID: %d\n", result.NewContentID))
		}
		if result.NewLocationID != 0 {
			output.WriteString(fmt.Sprintf("New Location ID: %d\n", result.NewLocationID))
		}
		if len(result.Languages) > 0 {
			output.WriteString(fmt.Sprintf("Remaining Languages: %s\n", strings.Join(result.Languages, ", ")))
		}
		if len(result.PurgedLocationIDs) > 0 {
			output.WriteString(fmt.Sprintf("Purged Locations: %s\n", joinIDs(result.PurgedLocationIDs)))
		}
		if result.Compensated {
			output.WriteString("Replacement content was removed again\n")
		}
		if result.CompensationError != "" {
			output.WriteString(fmt.Sprintf("Compensation Error: %s\n", result.CompensationError))
		}
	}

	return output.String(), nil
}

// FormatLanguageTable renders one row per translation, main language marked
func FormatLanguageTable(w io.Writer, plan *translation.Plan) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Language", "Name", "Main"})
	for _, code := range plan.LanguageCodes {
		main := ""
		if code == plan.MainLanguage {
			main = "*"
		}
		table.Append([]string{code, plan.Names[code], main})
	}
	table.Render()
}

// JSONFormatter formats output as JSON
type JSONFormatter struct{}

// Format formats the report as JSON
func (f *JSONFormatter) Format(report *Report) (string, error) {
	jsonBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// GetFormatter returns the appropriate formatter based on format string
func GetFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "text", "txt":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
