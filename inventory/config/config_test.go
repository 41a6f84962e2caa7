package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScanner_Normalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		interval time.Duration
		want     time.Duration
	}{
		{name: "zero", interval: 0, want: defaultScanInterval},
		{name: "negative", interval: -5 * time.Second, want: defaultScanInterval},
		{name: "kept", interval: 30 * time.Second, want: 30 * time.Second},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := Scanner{Enabled: true, Interval: tt.interval}
			s.normalize()
			require.Equal(t, tt.want, s.Interval)
		})
	}
}
