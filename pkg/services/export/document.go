// Package export writes generated reports in their requested output format.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/report"
)

// ErrUnsupportedFormat is returned for formats rendered outside this service, such as PDF
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ContentType returns the media type of a format.
func ContentType(f domain.ReportFormat) (string, error) {
	switch f {
	case domain.FormatWeb, domain.FormatHTML, "":
		return "text/html; charset=utf-8", nil
	case domain.FormatJSON:
		return "application/json", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// Write renders result in its resolved format.
func Write(w io.Writer, result *report.Result) error {
	format := result.ResolvedOptions.Format
	if _, err := ContentType(format); err != nil {
		return err
	}

	if format == domain.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err := io.WriteString(w, result.Document)
	return err
}
