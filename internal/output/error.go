package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details. Raw RPC payloads never appear
// here; they go to the debug log instead.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// errorTitles maps failure codes to short user-facing headlines.
var errorTitles = map[string]string{
	"USER_REJECTED":             "Signing request rejected",
	"VALIDATION_FAILED":         "Invalid request",
	"SIMULATION_FAILED":         "Transaction would fail",
	"NETWORK_UNAVAILABLE":       "Network unavailable",
	"SUBMISSION_TIMED_OUT":      "Confirmation still pending",
	"CONTRACT_EXECUTION_FAILED": "Contract rejected the call",
	"UNKNOWN":                   "Unexpected error",
}

func titleFor(code string) string {
	if title, ok := errorTitles[code]; ok {
		return title
	}
	return "Error"
}

// FormatError formats an error for display.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	if format == FormatJSON {
		return formatErrorJSON(w, err)
	}
	return formatErrorText(w, err)
}

func formatErrorJSON(w io.Writer, err error) error {
	var ee *ekerr.EscrowError
	if errors.As(err, &ee) {
		output := ErrorOutput{
			Error: ErrorDetail{
				Code:       ee.Code,
				Title:      titleFor(ee.Code),
				Message:    ee.Message,
				Details:    ee.Details,
				Suggestion: ee.Suggestion,
				ExitCode:   ee.ExitCode,
			},
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	}

	// Generic error
	output := ErrorOutput{
		Error: ErrorDetail{
			Code:     "UNKNOWN",
			Title:    titleFor("UNKNOWN"),
			Message:  err.Error(),
			ExitCode: ekerr.ExitGeneral,
		},
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func formatErrorText(w io.Writer, err error) error {
	var sb strings.Builder

	var ee *ekerr.EscrowError
	if errors.As(err, &ee) {
		sb.WriteString(fmt.Sprintf("%s\n", titleFor(ee.Code)))
		sb.WriteString(fmt.Sprintf("  %s\n", ee.Message))

		if len(ee.Details) > 0 {
			keys := make([]string, 0, len(ee.Details))
			for k := range ee.Details {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			sb.WriteString("\nDetails:\n")
			for _, k := range keys {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", k, ee.Details[k]))
			}
		}

		if ee.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("\nSuggestion: %s\n", ee.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %s\n", err.Error()))
	}

	_, writeErr := w.Write([]byte(sb.String()))
	return writeErr
}

// FormatSuccess formats a success message.
func FormatSuccess(w io.Writer, message string, format Format) error {
	if format == FormatJSON {
		output := map[string]string{"status": "success", "message": message}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	}
	_, err := fmt.Fprintln(w, message)
	return err
}
