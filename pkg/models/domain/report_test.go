package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2025-04-01", want: date(2025, time.April, 1)},
		{in: "2025-06-30T12:30:00Z", want: time.Date(2025, 6, 30, 12, 30, 0, 0, time.UTC)},
		{in: "04/01/2025", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), got)
		})
	}
}

func TestDateRange_Months(t *testing.T) {
	q := DateRange{Start: date(2025, time.April, 1), End: date(2025, time.June, 30)}
	assert.InDelta(t, 2.99, q.Months(), 0.01)

	short := DateRange{Start: date(2025, time.April, 1), End: date(2025, time.April, 3)}
	assert.Equal(t, 1.0, short.Months())
}
