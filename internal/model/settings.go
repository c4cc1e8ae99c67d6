package model

import "sort"

// Lead times are minutes before an event's start at which a notification
// fires. Custom lead times are capped at one day.
const MaxCustomLeadMinutes = 24 * 60

// NotificationSettings holds the user's notification preferences.
type NotificationSettings struct {
	Enabled     bool  `json:"enabled"`
	Before5     bool  `json:"before5"`
	Before15    bool  `json:"before15"`
	Before30    bool  `json:"before30"`
	AtStart     bool  `json:"atStart"`
	Custom      bool  `json:"custom"`
	CustomTimes []int `json:"customTimes"`
}

// DefaultNotificationSettings matches the initial preference state:
// disabled overall, only the 5-minute lead pre-selected.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{Before5: true}
}

// NormalizeCustomTimes deduplicates the given lead times, silently drops
// values outside (0, 1440] and returns the rest sorted descending.
func NormalizeCustomTimes(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	var out []int
	for _, v := range values {
		if v <= 0 || v > MaxCustomLeadMinutes {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// SetCustomTimes replaces the custom lead times with a normalized copy of
// the given values.
func (s *NotificationSettings) SetCustomTimes(values []int) {
	s.CustomTimes = NormalizeCustomTimes(values)
}
