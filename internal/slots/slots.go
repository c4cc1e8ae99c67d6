package slots

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadClock is returned for clock strings not matching H:MM or HH:MM.
var ErrBadClock = errors.New("bad clock time")

const minutesPerDay = 24 * 60

// ParseClock converts a "HH:MM" (or "H:MM") clock string to minute of day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: hour in %q", ErrBadClock, s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: minute in %q", ErrBadClock, s)
	}

	return hour*60 + minute, nil
}

// FormatClock renders a minute of day as zero-padded "HH:MM". Values outside
// [0,1439] wrap modulo one day; the wrap is cosmetic only and callers must
// not use it for scheduling math.
func FormatClock(minuteOfDay int) string {
	m := ((minuteOfDay % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Labels generates the ordered "HH:MM - HH:MM" slot labels for a grid that
// starts at start, ends at end and steps by duration (all minutes of day).
// The last slot is not clipped: if duration does not evenly divide the span
// it extends past end.
func Labels(start, end, duration int) []string {
	if duration <= 0 {
		return nil
	}

	var labels []string
	for current := start; current < end; current += duration {
		labels = append(labels, FormatClock(current)+" - "+FormatClock(current+duration))
	}
	return labels
}

// StartOfLabel parses the start clock time out of a "HH:MM - HH:MM" label
// and returns it as minute of day.
func StartOfLabel(label string) (int, error) {
	start, _, ok := strings.Cut(label, " - ")
	if !ok {
		return 0, fmt.Errorf("%w: label %q", ErrBadClock, label)
	}
	return ParseClock(start)
}
