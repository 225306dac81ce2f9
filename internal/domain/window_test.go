package domain

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{
			name:  "full time of day",
			input: "14:00:00",
			want:  14 * 3600,
		},
		{
			name:  "with minutes and seconds",
			input: "20:30:15",
			want:  20*3600 + 30*60 + 15,
		},
		{
			name:  "without seconds",
			input: "09:45",
			want:  9*3600 + 45*60,
		},
		{
			name:  "midnight",
			input: "00:00:00",
			want:  0,
		},
		{
			name:  "last second of the day",
			input: "23:59:59",
			want:  23*3600 + 59*60 + 59,
		},
		{
			name:    "hour out of range",
			input:   "24:00:00",
			wantErr: true,
		},
		{
			name:    "minute out of range",
			input:   "12:60:00",
			wantErr: true,
		},
		{
			name:    "not a time",
			input:   "noon",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "too many fields",
			input:   "12:00:00:00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{
			name:  "normal window",
			start: "14:00:00",
			end:   "20:00:00",
		},
		{
			name:  "zero-length window",
			start: "14:00:00",
			end:   "14:00:00",
		},
		{
			name:    "midnight-crossing window rejected",
			start:   "22:00:00",
			end:     "02:00:00",
			wantErr: true,
		},
		{
			name:    "bad start",
			start:   "25:00:00",
			end:     "20:00:00",
			wantErr: true,
		},
		{
			name:    "bad end",
			start:   "14:00:00",
			end:     "garbage",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWindow(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWindow(%q, %q) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func TestInWindow(t *testing.T) {
	// 14:00:00 - 20:00:00
	start := 14 * 3600
	end := 20 * 3600

	tests := []struct {
		name string
		hour int
		min  int
		sec  int
		want bool
	}{
		{name: "well inside", hour: 18, want: true},
		{name: "before window", hour: 13, min: 59, sec: 59, want: false},
		{name: "after window", hour: 21, want: false},
		{name: "exactly at start", hour: 14, want: true},
		{name: "exactly at end", hour: 20, want: true},
		{name: "one second past end", hour: 20, sec: 1, want: false},
		{name: "early morning", hour: 2, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2024, time.May, 6, tt.hour, tt.min, tt.sec, 0, time.UTC)
			if got := InWindow(now, start, end); got != tt.want {
				t.Errorf("InWindow(%02d:%02d:%02d) = %v, want %v", tt.hour, tt.min, tt.sec, got, tt.want)
			}
		})
	}
}

func TestReminderDue(t *testing.T) {
	now := time.Date(2024, time.May, 6, 21, 0, 0, 0, time.UTC)

	hoursAgo := func(h int) *time.Time {
		t := now.Add(-time.Duration(h) * time.Hour)
		return &t
	}

	tests := []struct {
		name      string
		lastLog   *time.Time
		frequency int
		want      bool
	}{
		{
			name:      "no log ever taken",
			lastLog:   nil,
			frequency: 24,
			want:      true,
		},
		{
			name:      "logged 10 hours ago with 24h frequency",
			lastLog:   hoursAgo(10),
			frequency: 24,
			want:      false,
		},
		{
			name:      "logged 25 hours ago with 24h frequency",
			lastLog:   hoursAgo(25),
			frequency: 24,
			want:      true,
		},
		{
			name:      "logged exactly frequency ago",
			lastLog:   hoursAgo(24),
			frequency: 24,
			want:      true,
		},
		{
			name:      "zero frequency is always eligible",
			lastLog:   hoursAgo(1),
			frequency: 0,
			want:      true,
		},
		{
			name:      "negative frequency is always eligible",
			lastLog:   hoursAgo(1),
			frequency: -3,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReminderDue(tt.lastLog, tt.frequency, now); got != tt.want {
				t.Errorf("ReminderDue() = %v, want %v", got, tt.want)
			}
		})
	}
}
