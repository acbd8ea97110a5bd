package translation

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/Taichi-iskw/rmtrans/internal/errors"
	"github.com/Taichi-iskw/rmtrans/internal/model"
	"github.com/Taichi-iskw/rmtrans/internal/service/translation"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFormatter(t *testing.T) {
	tests := []struct {
		format   string
		wantType Formatter
		wantErr  bool
	}{
		{format: "text", wantType: &TextFormatter{}},
		{format: "txt", wantType: &TextFormatter{}},
		{format: "JSON", wantType: &JSONFormatter{}},
		{format: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			formatter, err := GetFormatter(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported format")
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, formatter)
		})
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name       string
		report     *Report
		wantOutput []string
		wantAbsent []string
	}{
		{
			name:   "plan only",
			report: &Report{Status: StatusShown, Plan: samplePlan(translation.RemoveRequest{ContentID: 42})},
			wantOutput: []string{
				"Content ID: 42\n",
				"Parent Location ID: 2\n",
				"Languages: eng-GB, fre-FR\n",
			},
			wantAbsent: []string{"Stage:"},
		},
		{
			name: "partial failure with compensation",
			report: &Report{
				Status: StatusFailed,
				Result: &translation.Result{
					ContentID:     42,
					NewContentID:  101,
					NewLocationID: 102,
					Stage:         translation.StageSwap,
					Compensated:   true,
				},
			},
			wantOutput: []string{
				"Stage: swap\n",
				"New Content ID: 101\n",
				"New Location ID: 102\n",
				"Replacement content was removed again\n",
			},
			wantAbsent: []string{"Purged Locations", "Compensation Error"},
		},
		{
			name: "failed compensation",
			report: &Report{
				Status: StatusFailed,
				Result: &translation.Result{
					NewContentID:      101,
					Stage:             translation.StageReload,
					CompensationError: "failed to swap locations back: timeout",
				},
			},
			wantOutput: []string{"Compensation Error: failed to swap locations back: timeout\n"},
			wantAbsent: []string{"New Location ID"},
		},
	}

	formatter := &TextFormatter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := formatter.Format(tt.report)
			require.NoError(t, err)
			for _, want := range tt.wantOutput {
				assert.Contains(t, output, want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, output, absent)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	report := &Report{
		Status: StatusPurgeFailed,
		Result: &translation.Result{ContentID: 42, NewContentID: 101, Stage: translation.StagePurge, Removed: true},
		Error:  newReportError(apperrors.New(apperrors.CodeCachePurgeFailed, "purge failed")),
	}

	output, err := (&JSONFormatter{}).Format(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))
	assert.Equal(t, "purge_failed", decoded["status"])
	assert.NotContains(t, decoded, "plan")

	errField, ok := decoded["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeCachePurgeFailed, errField["code"])
	assert.Equal(t, "purge failed", errField["message"])
}

func TestNewReportError(t *testing.T) {
	assert.Nil(t, newReportError(nil))

	plain := newReportError(errors.New("connection refused"))
	assert.Equal(t, apperrors.CodeInternal, plain.Code)
	assert.Equal(t, "connection refused", plain.Message)

	wrapped := newReportError(apperrors.Wrap(errors.New("boom"), apperrors.CodeRemovalFailed, "swap failed: boom"))
	assert.Equal(t, apperrors.CodeRemovalFailed, wrapped.Code)
	assert.Equal(t, "swap failed: boom", wrapped.Message)
}

func TestFormatLanguageTable(t *testing.T) {
	var buf bytes.Buffer
	FormatLanguageTable(&buf, samplePlan(translation.RemoveRequest{ContentID: 42}))

	output := buf.String()
	assert.Contains(t, output, "LANGUAGE")
	assert.Contains(t, output, "eng-GB")
	assert.Contains(t, output, "Accueil")
	assert.Contains(t, output, "*")
}

func TestFormatPlan(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	FormatPlan(&buf, samplePlan(translation.RemoveRequest{ContentID: 42, RemoveLanguage: "fre-FR"}))

	output := buf.String()
	assert.Contains(t, output, "Translation to remove: fre-FR")
	assert.Contains(t, output, "Remaining languages: eng-GB")
	assert.Contains(t, output, "under location 2")
	assert.Contains(t, output, "Swap location 60")
	assert.Contains(t, output, "Purge cache for locations 2, 60 and the new location")
	assert.Contains(t, output, "No content was modified.")
}

func TestFormatPlan_SwapsSelectedLocation(t *testing.T) {
	plan := samplePlan(translation.RemoveRequest{LocationID: 61, RemoveLanguage: "fre-FR"})
	plan.Location = &model.Location{ID: 61, ParentLocationID: 2}

	var buf bytes.Buffer
	FormatPlan(&buf, plan)

	assert.Contains(t, buf.String(), "Swap location 61")
	assert.Contains(t, buf.String(), "Purge cache for locations 2, 60 and the new location")
}
