package domain

import (
	"fmt"
	"time"
)

type ReportFormat string

const (
	FormatWeb  ReportFormat = "web"
	FormatPDF  ReportFormat = "pdf"
	FormatHTML ReportFormat = "html"
	FormatJSON ReportFormat = "json"
)

func (f ReportFormat) IsValid() bool {
	switch f {
	case FormatWeb, FormatPDF, FormatHTML, FormatJSON:
		return true
	}
	return false
}

// DateRange is an inclusive calendar range
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls on or between the Start and End days.
func (r DateRange) Contains(t time.Time) bool {
	if t.Before(r.Start) {
		return false
	}
	return t.Before(r.EndExclusive())
}

// EndExclusive returns the first instant after the range.
// Date-only ends (midnight) are widened to cover the whole day.
func (r DateRange) EndExclusive() time.Time {
	if r.End.Equal(truncateDay(r.End)) {
		return r.End.AddDate(0, 0, 1)
	}
	return r.End.Add(time.Nanosecond)
}

// Months returns the length of the range in months, never less than one.
func (r DateRange) Months() float64 {
	days := r.EndExclusive().Sub(r.Start).Hours() / 24
	months := days / 30.4375
	if months < 1 {
		return 1
	}
	return months
}

// ParseDay accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Filters narrows the raw data fetched for a report, e.g. "location" or "category"
type Filters map[string]string

// Filter keys understood by the raw data sources
const (
	FilterClientID = "client_id"
	FilterLocation = "location"
	FilterCategory = "category"
)

// ReportOptions is the caller supplied, partial description of a report.
// Any field may be left empty.
type ReportOptions struct {
	Sections  map[string]bool `json:"sections,omitempty"`
	DateRange *DateRange      `json:"dateRange,omitempty"`
	Filters   Filters         `json:"filters,omitempty"`
	Format    ReportFormat    `json:"format,omitempty"`
	Overrides *Overrides      `json:"overrides,omitempty"`
}

// ResolvedOptions is ReportOptions with every default applied
type ResolvedOptions struct {
	ReportType string          `json:"reportType"`
	Sections   map[string]bool `json:"sections"`
	DateRange  DateRange       `json:"dateRange"`
	Filters    Filters         `json:"filters"`
	Format     ReportFormat    `json:"format"`
	Settings   Settings        `json:"settings"`
}

// SelectedKeys returns the keys of all sections selected true.
func (o ResolvedOptions) SelectedKeys() []string {
	keys := make([]string, 0, len(o.Sections))
	for k, v := range o.Sections {
		if v {
			keys = append(keys, k)
		}
	}
	return keys
}

// ValidationResult is the outcome of a section selection check
type ValidationResult struct {
	OK       bool     `json:"ok"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type ReportMetadata struct {
	ReportID         string    `json:"reportId"`
	ReportType       string    `json:"reportType"`
	ReportName       string    `json:"reportName"`
	Subtitle         string    `json:"subtitle"`
	ClientName       string    `json:"clientName"`
	DateRange        DateRange `json:"dateRange"`
	SectionsIncluded []string  `json:"sectionsIncluded"`
	EstimatedPages   float64   `json:"estimatedPages"`
	TotalPages       int       `json:"totalPages"`
	GeneratedAt      time.Time `json:"generatedAt"`
}
