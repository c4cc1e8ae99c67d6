package notify

import (
	"fmt"
	"time"

	"github.com/AquaCheese/timetable/internal/slots"
)

// NextOccurrence projects a weekly recurring event onto a concrete future
// date-time. startLabel is the event's slot label ("HH:MM - HH:MM"),
// dayIndex is Monday-first (0=Monday..6=Sunday) and weekOffset selects this
// week's (0) or next week's (1) occurrence relative to now.
//
// Recurrence is implicit (day of week plus time of day, no stored absolute
// dates), so callers must re-project against a fresh now whenever triggers
// are re-armed.
//
// The occurrence is discarded, not rolled forward, when it is not strictly
// after now; iterating weekOffset 0 and 1 is the caller's job.
func NextOccurrence(startLabel string, dayIndex, weekOffset int, now time.Time) (time.Time, bool, error) {
	startMinute, err := slots.StartOfLabel(startLabel)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("project occurrence: %w", err)
	}
	hour, minute := startMinute/60, startMinute%60

	// Normalize to 1..7 with Monday=1: time.Weekday has Sunday=0.
	today := int(now.Weekday())
	if today == 0 {
		today = 7
	}
	targetDay := dayIndex + 1

	daysUntil := (targetDay-today+7)%7 + weekOffset*7

	occurrence := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()).
		AddDate(0, 0, daysUntil)

	if !occurrence.After(now) {
		return time.Time{}, false, nil
	}
	return occurrence, true, nil
}
