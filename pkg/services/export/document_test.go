package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(format domain.ReportFormat) *report.Result {
	return &report.Result{
		Document:        "<html><body>report</body></html>",
		Metadata:        domain.ReportMetadata{ReportID: "r-1", ReportType: "pickup"},
		ResolvedOptions: domain.ResolvedOptions{ReportType: "pickup", Format: format},
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		format  domain.ReportFormat
		want    string
		wantErr bool
	}{
		{format: domain.FormatWeb, want: "text/html; charset=utf-8"},
		{format: domain.FormatHTML, want: "text/html; charset=utf-8"},
		{format: domain.FormatJSON, want: "application/json"},
		{format: domain.FormatPDF, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got, err := ContentType(tt.format)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite(t *testing.T) {
	t.Run("html writes the document", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, result(domain.FormatHTML)))
		assert.Equal(t, "<html><body>report</body></html>", buf.String())
	})

	t.Run("json wraps document and metadata", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, result(domain.FormatJSON)))

		var body map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &body))
		assert.Equal(t, "<html><body>report</body></html>", body["document"])
		assert.Equal(t, "r-1", body["metadata"].(map[string]any)["reportId"])
		assert.Contains(t, body, "resolvedOptions")
		assert.NotContains(t, body, "data")
	})

	t.Run("pdf is rejected before writing", func(t *testing.T) {
		var buf bytes.Buffer
		err := Write(&buf, result(domain.FormatPDF))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.Zero(t, buf.Len())
	})
}
