package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/de-tools/ewaste-reports/pkg/models/api"
	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/export"
	"github.com/de-tools/ewaste-reports/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Generator is the report pipeline served over HTTP
type Generator interface {
	Generate(ctx context.Context, reportType string, opts domain.ReportOptions) (*report.Result, error)
	Preview(reportType string, opts domain.ReportOptions) (*report.Preview, error)
	ReportTypes() []domain.ReportTypeDefinition
	AvailableSections() []domain.SectionDefinition
	ClearCache()
}

type Handler struct {
	generator Generator
}

func NewHandler(generator Generator) *Handler {
	return &Handler{generator: generator}
}

func (h *Handler) ListReportTypes(w http.ResponseWriter, r *http.Request) {
	writeBody(r.Context(), w, http.StatusOK, h.generator.ReportTypes())
}

func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	writeBody(r.Context(), w, http.StatusOK, h.generator.AvailableSections())
}

func (h *Handler) PreviewReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportType := chi.URLParam(r, "type")

	opts, ok := decodeOptions(w, r)
	if !ok {
		return
	}

	preview, err := h.generator.Preview(reportType, opts)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeBody(ctx, w, http.StatusOK, preview)
}

func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	reportType := chi.URLParam(r, "type")

	opts, ok := decodeOptions(w, r)
	if !ok {
		return
	}
	if opts.Format == domain.FormatPDF {
		writeBody(ctx, w, http.StatusNotImplemented, api.ErrorResponse{
			Kind:    api.KindUnsupportedFormat,
			Message: "pdf export is not available from this service; request html and convert it",
		})
		return
	}

	result, err := h.generator.Generate(ctx, reportType, opts)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	contentType, err := export.ContentType(result.ResolvedOptions.Format)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Report-Id", result.Metadata.ReportID)
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, result); err != nil {
		logger.Error().
			Err(err).
			Str("report_id", result.Metadata.ReportID).
			Msg("failed to write report")
	}
}

func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.generator.ClearCache()
	zerolog.Ctx(r.Context()).Info().Msg("report data cache cleared")
	writeBody(r.Context(), w, http.StatusOK, api.ClearCacheResponse{Cleared: true})
}

// decodeOptions reads an optional JSON body; it writes the 400 response itself.
func decodeOptions(w http.ResponseWriter, r *http.Request) (domain.ReportOptions, bool) {
	var req api.ReportRequest
	if r.Body != nil {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeBody(r.Context(), w, http.StatusBadRequest, api.ErrorResponse{
				Kind:    api.KindBadRequest,
				Message: "invalid request body: " + err.Error(),
			})
			return domain.ReportOptions{}, false
		}
	}
	opts, err := req.Options()
	if err != nil {
		writeBody(r.Context(), w, http.StatusBadRequest, api.ErrorResponse{
			Kind:    api.KindBadRequest,
			Message: err.Error(),
		})
		return domain.ReportOptions{}, false
	}
	return opts, true
}

// StatusFor maps a pipeline error kind to its HTTP status.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindUnknownReportType:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindDataFetch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := StatusFor(kind)
	resp := api.ErrorResponse{Kind: kind, Message: err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = verr.Errors
	}

	event := zerolog.Ctx(ctx).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(ctx).Error()
	}
	event.Err(err).Str("kind", string(kind)).Int("status", status).Msg("report request failed")

	writeBody(ctx, w, status, resp)
}

func writeBody(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
