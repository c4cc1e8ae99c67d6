package notify

import (
	"fmt"

	"github.com/AquaCheese/timetable/internal/model"
)

// Entry is one derived lead-time rule: fire Lead minutes before the event
// starts, described by Label.
type Entry struct {
	Lead  int
	Label string
}

// Entries derives the ordered lead-time rules from the user's preferences:
// fixed leads descending (30, 15, 5), then the at-start entry, then custom
// leads descending. The order only matters for deterministic iteration;
// every entry arms an independent trigger.
func Entries(s model.NotificationSettings) []Entry {
	var entries []Entry
	if s.Before30 {
		entries = append(entries, Entry{Lead: 30, Label: "30 minutes"})
	}
	if s.Before15 {
		entries = append(entries, Entry{Lead: 15, Label: "15 minutes"})
	}
	if s.Before5 {
		entries = append(entries, Entry{Lead: 5, Label: "5 minutes"})
	}
	if s.AtStart {
		entries = append(entries, Entry{Lead: 0, Label: "now"})
	}
	if s.Custom {
		for _, lead := range s.CustomTimes {
			if lead <= 0 {
				continue
			}
			entries = append(entries, Entry{Lead: lead, Label: FormatLeadLabel(lead)})
		}
	}
	return entries
}

// FormatLeadLabel renders a lead time in minutes as a human label.
// Leads of a day or more are floored to whole days; the remainder is
// discarded, a known limitation for multi-day leads.
func FormatLeadLabel(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes == 60:
		return "1 hour"
	case minutes < 24*60:
		hours := minutes / 60
		rem := minutes % 60
		if rem == 0 {
			if hours == 1 {
				return "1 hour"
			}
			return fmt.Sprintf("%d hours", hours)
		}
		return fmt.Sprintf("%dh %dm", hours, rem)
	default:
		days := minutes / (24 * 60)
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
}
