package processor

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
)

type cacheKey struct {
	ReportType string            `json:"t"`
	Sections   []string          `json:"s"`
	Start      string            `json:"from"`
	End        string            `json:"to"`
	Filters    map[string]string `json:"f"`
	ClientID   string            `json:"cid"`
	ClientName string            `json:"cn"`
	Industry   string            `json:"ind"`
	Currency   string            `json:"cur"`
}

// CacheKey serializes the inputs that shape processed data. Sections are reduced to
// the sorted selected keys and maps are encoded with sorted keys, so option maps that
// differ only in iteration order or in explicit false entries share a key. Output
// format and locale are applied at render time and stay out of the key.
func CacheKey(reportType string, resolved domain.ResolvedOptions) (string, error) {
	selected := resolved.SelectedKeys()
	sort.Strings(selected)

	filters := resolved.Filters
	if filters == nil {
		filters = domain.Filters{}
	}

	b, err := json.Marshal(cacheKey{
		ReportType: reportType,
		Sections:   selected,
		Start:      resolved.DateRange.Start.UTC().Format(time.RFC3339Nano),
		End:        resolved.DateRange.End.UTC().Format(time.RFC3339Nano),
		Filters:    filters,
		ClientID:   resolved.Settings.ClientID,
		ClientName: resolved.Settings.ClientName,
		Industry:   resolved.Settings.ClientIndustry,
		Currency:   resolved.Settings.Currency,
	})
	if err != nil {
		return "", fmt.Errorf("marshal cache key: %w", err)
	}
	return string(b), nil
}
