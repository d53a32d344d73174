package api

import (
	"fmt"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
)

// ErrorResponse is the body of every failed API call.
// Errors lists each violation for validation failures.
type ErrorResponse struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
	Errors  []string         `json:"errors,omitempty"`
}

// ClearCacheResponse acknowledges a cache flush
type ClearCacheResponse struct {
	Cleared bool `json:"cleared"`
}

// Error kinds raised by the HTTP layer itself
const (
	KindBadRequest        domain.ErrorKind = "bad_request"
	KindUnsupportedFormat domain.ErrorKind = "unsupported_format"
)

// ReportRequest is the body accepted by the preview and generate endpoints.
// Dates are YYYY-MM-DD or RFC 3339.
type ReportRequest struct {
	Sections  map[string]bool     `json:"sections,omitempty"`
	StartDate string              `json:"startDate,omitempty"`
	EndDate   string              `json:"endDate,omitempty"`
	Filters   domain.Filters      `json:"filters,omitempty"`
	Format    domain.ReportFormat `json:"format,omitempty"`
	Overrides *Overrides          `json:"overrides,omitempty"`
}

// Options converts the request; a date range needs both ends.
func (r ReportRequest) Options() (domain.ReportOptions, error) {
	opts := domain.ReportOptions{
		Sections:  r.Sections,
		Filters:   r.Filters,
		Format:    r.Format,
		Overrides: r.Overrides.Domain(),
	}
	if r.Format != "" && !r.Format.IsValid() {
		return opts, fmt.Errorf("unsupported format %q", r.Format)
	}
	if r.StartDate == "" && r.EndDate == "" {
		return opts, nil
	}
	if r.StartDate == "" || r.EndDate == "" {
		return opts, fmt.Errorf("startDate and endDate must be given together")
	}
	start, err := domain.ParseDay(r.StartDate)
	if err != nil {
		return opts, err
	}
	end, err := domain.ParseDay(r.EndDate)
	if err != nil {
		return opts, err
	}
	if end.Before(start) {
		return opts, fmt.Errorf("endDate %s is before startDate %s", r.EndDate, r.StartDate)
	}
	opts.DateRange = &domain.DateRange{Start: start, End: end}
	return opts, nil
}
