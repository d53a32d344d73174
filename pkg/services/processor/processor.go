// Package processor projects raw program data into per-section view models.
package processor

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/cache"
	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/catalog"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DataSource is the I/O boundary of the pipeline
type DataSource interface {
	FetchRaw(ctx context.Context, dateRange domain.DateRange, filters domain.Filters) (*domain.RawData, error)
}

// KeyFunc builds the cache key for a processing request
type KeyFunc func(reportType string, resolved domain.ResolvedOptions) (string, error)

type Processor struct {
	source  DataSource
	cache   *cache.TTLCache[string, *domain.ProcessedReportData]
	group   singleflight.Group
	keyFunc KeyFunc
	clock   cache.Clock
}

type Option func(*Processor)

// WithCache replaces the default system-clock cache, e.g. with one driven by a fake clock.
func WithCache(c *cache.TTLCache[string, *domain.ProcessedReportData]) Option {
	return func(p *Processor) { p.cache = c }
}

func WithKeyFunc(f KeyFunc) Option {
	return func(p *Processor) { p.keyFunc = f }
}

func WithClock(c cache.Clock) Option {
	return func(p *Processor) { p.clock = c }
}

func NewProcessor(source DataSource, opts ...Option) *Processor {
	p := &Processor{
		source:  source,
		keyFunc: CacheKey,
		clock:   cache.SystemClock,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = cache.New[string, *domain.ProcessedReportData](cache.WithClock(p.clock), cache.WithScheduler(cache.SystemClock))
	}
	return p
}

// ProcessForReport returns the processed data for a report, from cache when possible.
// Cached results are shared between callers and must be treated as read-only.
func (p *Processor) ProcessForReport(
	ctx context.Context,
	reportType string,
	resolved domain.ResolvedOptions,
) (*domain.ProcessedReportData, error) {
	logger := zerolog.Ctx(ctx).With().Str("report_type", reportType).Logger()
	perf := resolved.Settings.Performance

	key, keyErr := p.keyFunc(reportType, resolved)
	if keyErr != nil {
		logger.Warn().Err(keyErr).Msg("failed to build cache key, treating as cache miss")
	}
	cacheable := perf.EnableCaching && keyErr == nil

	if cacheable {
		if data, ok := p.cache.Get(key); ok {
			logger.Debug().Msg("report data served from cache")
			return data, nil
		}
	}

	build := func(ctx context.Context) (*domain.ProcessedReportData, error) {
		data, err := p.process(ctx, reportType, resolved)
		if err != nil {
			return nil, err
		}
		if cacheable {
			p.cache.Put(key, data, perf.CacheTimeout)
		}
		return data, nil
	}

	if !perf.DeduplicateFetches || keyErr != nil {
		return build(ctx)
	}

	// The shared fetch outlives any single caller; canceling one caller
	// only abandons its wait. FetchTimeout still bounds the fetch.
	shared := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (interface{}, error) { return build(shared) })
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debug().Msg("report data shared with an in-flight request")
		}
		return res.Val.(*domain.ProcessedReportData), nil
	case <-ctx.Done():
		return nil, &domain.DataFetchError{Err: ctx.Err()}
	}
}

// ClearCache drops every cached result.
func (p *Processor) ClearCache() {
	p.cache.Clear()
}

func (p *Processor) CacheSize() int {
	return p.cache.Len()
}

func (p *Processor) process(
	ctx context.Context,
	reportType string,
	resolved domain.ResolvedOptions,
) (*domain.ProcessedReportData, error) {
	raw, err := p.fetch(ctx, resolved)
	if err != nil {
		return nil, err
	}

	tc := &transformContext{
		raw:      raw,
		resolved: resolved,
		now:      p.clock.Now(),
	}

	sections := make(map[string]domain.SectionView)
	for key, on := range resolved.Sections {
		if !on {
			continue
		}
		transform, ok := transforms[key]
		if !ok {
			sections[key] = domain.EmptySection{Key: key}
			continue
		}
		sections[key] = transform(tc)
	}

	client := raw.Client
	if resolved.Settings.ClientName != "" && client.Name == "" {
		client.Name = resolved.Settings.ClientName
	}
	if client.ID == "" {
		client.ID = resolved.Settings.ClientID
	}

	name := reportType
	if rt, ok := catalog.ReportType(reportType); ok {
		name = rt.Name
	}
	pages := catalog.EstimatePages(resolved.Sections)

	return &domain.ProcessedReportData{
		Metadata: domain.ReportInfo{
			GeneratedAt: tc.now,
			ReportName:  name,
			DateRange:   resolved.DateRange,
			TotalPages:  int(math.Ceil(pages)),
		},
		Client:   client,
		Sections: sections,
		Summary:  summarize(sections),
	}, nil
}

func (p *Processor) fetch(ctx context.Context, resolved domain.ResolvedOptions) (*domain.RawData, error) {
	if timeout := resolved.Settings.Performance.FetchTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := p.source.FetchRaw(ctx, resolved.DateRange, resolved.Filters)
	if err != nil {
		var fetchErr *domain.DataFetchError
		if errors.As(err, &fetchErr) {
			return nil, err
		}
		return nil, &domain.DataFetchError{Err: err}
	}
	if raw == nil {
		return nil, &domain.DataFetchError{Err: errors.New("data source returned no data")}
	}

	zerolog.Ctx(ctx).Debug().
		Dur("elapsed", time.Since(start)).
		Int("pickups", len(raw.Pickups)).
		Int("assets", len(raw.Assets)).
		Msg("raw report data fetched")
	return raw, nil
}
