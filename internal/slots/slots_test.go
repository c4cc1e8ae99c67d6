package slots

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"08:00", 480, false},
		{"8:05", 485, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:30", 0, true},
		{"0800", 0, true},
		{"08:00:00", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClock(%q): expected error, got %d", tt.in, got)
				}
				if !errors.Is(err, ErrBadClock) {
					t.Errorf("ParseClock(%q): error %v is not ErrBadClock", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q): unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{485, "08:05"},
		{1439, "23:59"},
		{1440, "00:00"},
		{1500, "01:00"},
		{-60, "23:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.in); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name                  string
		start, end, duration  int
		want                  []string
	}{
		{
			name:  "even split",
			start: 480, end: 600, duration: 60,
			want: []string{"08:00 - 09:00", "09:00 - 10:00"},
		},
		{
			name:  "final slot overshoots end",
			start: 480, end: 600, duration: 90,
			want: []string{"08:00 - 09:30", "09:30 - 11:00"},
		},
		{
			name:  "start at end",
			start: 600, end: 600, duration: 60,
			want: nil,
		},
		{
			name:  "zero duration",
			start: 480, end: 600, duration: 0,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Labels(tt.start, tt.end, tt.duration)
			if len(got) != len(tt.want) {
				t.Fatalf("Labels(%d,%d,%d) = %v, want %v", tt.start, tt.end, tt.duration, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("label %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStartOfLabel(t *testing.T) {
	got, err := StartOfLabel("09:30 - 11:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 570 {
		t.Errorf("StartOfLabel = %d, want 570", got)
	}

	if _, err := StartOfLabel("no dash here"); err == nil {
		t.Error("expected error for label without separator")
	}
	if _, err := StartOfLabel("25:00 - 26:00"); err == nil {
		t.Error("expected error for out-of-range start")
	}
}
