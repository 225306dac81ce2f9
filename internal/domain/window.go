package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimeOfDay parses a wall-clock "HH:MM:SS" (or "HH:MM") value into
// seconds since midnight.
func ParseTimeOfDay(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}

	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		fields[i] = n
	}

	h, m, sec := fields[0], fields[1], fields[2]
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}

	return h*3600 + m*60 + sec, nil
}

// ValidateWindow checks a schedule's window bounds. Windows that cross
// midnight (end before start) are not supported and are rejected here so
// the evaluator never sees one.
func ValidateWindow(start, end string) error {
	startSec, err := ParseTimeOfDay(start)
	if err != nil {
		return err
	}
	endSec, err := ParseTimeOfDay(end)
	if err != nil {
		return err
	}
	if endSec < startSec {
		return fmt.Errorf("log window end %q is before start %q", end, start)
	}
	return nil
}

// SecondsOfDay returns the wall-clock seconds since midnight for t
func SecondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// InWindow reports whether now falls inside [startSec, endSec], bounds
// inclusive. Only the time of day matters; the date is ignored.
func InWindow(now time.Time, startSec, endSec int) bool {
	sec := SecondsOfDay(now)
	return sec >= startSec && sec <= endSec
}

// ReminderDue decides whether a schedule outside its log window should
// fire now. No log at all means the first-ever reminder is due. A zero
// or unset frequency means the schedule is always eligible once outside
// the window.
func ReminderDue(lastLog *time.Time, frequencyHours int, now time.Time) bool {
	if lastLog == nil {
		return true
	}
	if frequencyHours <= 0 {
		return true
	}
	nextDue := lastLog.Add(time.Duration(frequencyHours) * time.Hour)
	return !now.Before(nextDue)
}
