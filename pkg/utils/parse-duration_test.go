package utils

import (
	"testing"
	"time"
)

func TestParseDurationString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, true},
		{"10", 0, true},
		{"30s", 30 * time.Second, false},
		{"15m", 15 * time.Minute, false},
		{"24h", 24 * time.Hour, false},
		{"2h30m", 2*time.Hour + 30*time.Minute, false},
		{"1d", 0, true},
		{"500ms", 500 * time.Millisecond, false},
	}

	for _, tt := range tests {
		got, err := ParseDurationString(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error for %q: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("for %q got %s, want %s", tt.input, got, tt.want)
		}
	}
}
