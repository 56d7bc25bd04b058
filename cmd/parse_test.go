package cmd

import (
	"testing"
	"time"
)

func TestParseDue(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"11-30-2026", time.Date(2026, 11, 30, 0, 0, 0, 0, time.Local)},
		{"2026-11-30", time.Date(2026, 11, 30, 0, 0, 0, 0, time.Local)},
		{"2026-11-30 17:45", time.Date(2026, 11, 30, 17, 45, 0, 0, time.Local)},
		{"2026-11-30T17:45", time.Date(2026, 11, 30, 17, 45, 0, 0, time.Local)},
		{" 2026-11-30 ", time.Date(2026, 11, 30, 0, 0, 0, 0, time.Local)},
		{"2026-11-30T17:45:00Z", time.Date(2026, 11, 30, 17, 45, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseDue(tt.in)
		if err != nil {
			t.Errorf("parseDue(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseDue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDue_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "tomorrow", "2026-13-01", "30-11-2026"} {
		if _, err := parseDue(in); err == nil {
			t.Errorf("parseDue(%q) succeeded, want error", in)
		}
	}
}

func TestTaskArg(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr bool
	}{
		{nil, "", true},
		{[]string{" "}, "", true},
		{[]string{"abc123"}, "abc123", false},
		{[]string{" abc123 "}, "abc123", false},
		{[]string{"a", "b"}, "", true},
	}
	for _, tt := range tests {
		got, err := taskArg(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("taskArg(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("taskArg(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
