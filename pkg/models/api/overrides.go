package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
)

// Millis is a duration on the wire: a number of milliseconds or a
// duration string such as "5m".
type Millis time.Duration

func (m *Millis) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*m = Millis(d)
		return nil
	}
	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("duration must be milliseconds or a duration string: %w", err)
	}
	*m = Millis(time.Duration(ms * float64(time.Millisecond)))
	return nil
}

func (m Millis) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(m).Milliseconds())
}

type PerformanceOverrides struct {
	EnableCaching      *bool   `json:"enableCaching,omitempty"`
	CacheTimeout       *Millis `json:"cacheTimeout,omitempty"`
	FetchTimeout       *Millis `json:"fetchTimeout,omitempty"`
	DeduplicateFetches *bool   `json:"deduplicateFetches,omitempty"`
}

// Overrides is the request form of domain.Overrides; performance timeouts
// are given in milliseconds.
type Overrides struct {
	domain.Overrides
	Performance PerformanceOverrides `json:"performance"`
}

// Domain converts the request overrides; nil stays nil.
func (o *Overrides) Domain() *domain.Overrides {
	if o == nil {
		return nil
	}
	out := o.Overrides
	out.Performance = domain.PerformanceOverrides{
		EnableCaching:      o.Performance.EnableCaching,
		CacheTimeout:       o.Performance.CacheTimeout.duration(),
		FetchTimeout:       o.Performance.FetchTimeout.duration(),
		DeduplicateFetches: o.Performance.DeduplicateFetches,
	}
	return &out
}

func (m *Millis) duration() *time.Duration {
	if m == nil {
		return nil
	}
	d := time.Duration(*m)
	return &d
}
