package config

import (
	"maps"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/catalog"
)

// Resolver turns partial caller options into fully resolved report options
type Resolver struct {
	base        domain.Settings
	environment *domain.Overrides
	now         func() time.Time
}

type ResolverOption func(*Resolver)

// WithClock replaces the wall clock used for default date ranges.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithEnvironment layers environment specific overrides between base and caller settings.
func WithEnvironment(o *domain.Overrides) ResolverOption {
	return func(r *Resolver) {
		r.environment = o
	}
}

func NewResolver(base domain.Settings, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		base: base,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Settings returns base merged with the environment layer, without caller overrides.
func (r *Resolver) Settings() domain.Settings {
	return Merge(r.base, r.environment, nil)
}

// Resolve applies report type defaults to the caller options.
// It only fails when the report type is unknown.
func (r *Resolver) Resolve(reportType string, opts domain.ReportOptions) (domain.ResolvedOptions, error) {
	rt, ok := catalog.ReportType(reportType)
	if !ok {
		return domain.ResolvedOptions{}, &domain.UnknownReportTypeError{ReportType: reportType}
	}

	sections := make(map[string]bool, len(rt.DefaultSections)+len(opts.Sections))
	for _, key := range rt.DefaultSections {
		sections[key] = true
	}
	for key, on := range opts.Sections {
		sections[key] = on
	}

	var dateRange domain.DateRange
	if opts.DateRange != nil {
		dateRange = *opts.DateRange
	} else {
		dateRange = DefaultDateRange(rt.Timeframe, r.now())
	}

	format := opts.Format
	if format == "" {
		format = domain.FormatWeb
	}

	filters := domain.Filters{}
	maps.Copy(filters, opts.Filters)

	return domain.ResolvedOptions{
		ReportType: rt.Key,
		Sections:   sections,
		DateRange:  dateRange,
		Filters:    filters,
		Format:     format,
		Settings:   Merge(r.base, r.environment, opts.Overrides),
	}, nil
}

// DefaultDateRange derives the reporting period containing now for a timeframe.
// Ends are the last calendar day at midnight, except the single-event rule which ends at now.
func DefaultDateRange(tf domain.Timeframe, now time.Time) domain.DateRange {
	year, month, _ := now.Date()
	loc := now.Location()
	first := func(m time.Month) time.Time {
		return time.Date(year, m, 1, 0, 0, 0, 0, loc)
	}
	lastDayBefore := func(t time.Time) time.Time {
		return t.AddDate(0, 0, -1)
	}

	switch tf {
	case domain.TimeframeMonthly:
		start := first(month)
		return domain.DateRange{Start: start, End: lastDayBefore(start.AddDate(0, 1, 0))}
	case domain.TimeframeQuarterly:
		start := first(time.Month((int(month)-1)/3*3 + 1))
		return domain.DateRange{Start: start, End: lastDayBefore(start.AddDate(0, 3, 0))}
	case domain.TimeframeSemiAnnual:
		start := first(time.January)
		if month >= time.July {
			start = first(time.July)
		}
		return domain.DateRange{Start: start, End: lastDayBefore(start.AddDate(0, 6, 0))}
	case domain.TimeframeAnnual:
		start := first(time.January)
		return domain.DateRange{Start: start, End: lastDayBefore(start.AddDate(1, 0, 0))}
	default:
		return domain.DateRange{Start: first(month), End: now}
	}
}
