package model

import (
	"encoding/json"
	"fmt"
)

// DayNames are the Monday-first weekday names used for day indices 0..6.
var DayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ScheduleConfig defines the default slot grid of a timetable. It is
// replaced wholesale when a new timetable is generated.
type ScheduleConfig struct {
	Weeks        int    `json:"weeks"`
	Days         int    `json:"days"`
	StartTime    string `json:"startTime"`    // "08:00"
	EndTime      string `json:"endTime"`      // "17:00"
	SlotDuration int    `json:"slotDuration"` // minutes
}

// DefaultScheduleConfig returns the grid used before the user generates one.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Weeks:        1,
		Days:         5,
		StartTime:    "08:00",
		EndTime:      "17:00",
		SlotDuration: 60,
	}
}

// Validate checks the structural bounds of the config.
func (c ScheduleConfig) Validate() error {
	if c.Weeks < 1 {
		return fmt.Errorf("weeks must be >= 1, got %d", c.Weeks)
	}
	if c.Days < 1 || c.Days > 7 {
		return fmt.Errorf("days must be in [1,7], got %d", c.Days)
	}
	if c.SlotDuration <= 0 {
		return fmt.Errorf("slot duration must be positive, got %d", c.SlotDuration)
	}
	return nil
}

// EventEntry is one filled cell of the timetable. An entry with an empty
// subject must never be stored; clearing the subject deletes the cell.
type EventEntry struct {
	Subject       string `json:"subject"`
	Location      string `json:"location,omitempty"`
	Instructor    string `json:"instructor,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Color         string `json:"color,omitempty"`
	Notifications bool   `json:"notifications"`
	Time          string `json:"time"`    // slot label at creation, "HH:MM - HH:MM"
	DayName       string `json:"dayName"` // Monday..Sunday
}

// UnmarshalJSON defaults Notifications to true when the field is absent,
// which is how documents written by older versions encode "enabled".
func (e *EventEntry) UnmarshalJSON(data []byte) error {
	type alias EventEntry
	aux := alias{Notifications: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = EventEntry(aux)
	return nil
}

// Timetable maps week -> day -> slot index -> entry. Integer keys marshal
// as strings in JSON, matching the persisted document format.
type Timetable map[int]map[int]map[int]EventEntry

// NewTimetable creates an empty timetable with week and day maps
// pre-populated for the given config.
func NewTimetable(cfg ScheduleConfig) Timetable {
	t := make(Timetable, cfg.Weeks)
	for week := 0; week < cfg.Weeks; week++ {
		t[week] = make(map[int]map[int]EventEntry, cfg.Days)
		for day := 0; day < cfg.Days; day++ {
			t[week][day] = make(map[int]EventEntry)
		}
	}
	return t
}

// Entry returns the entry at the given cell, if present.
func (t Timetable) Entry(week, day, slot int) (EventEntry, bool) {
	e, ok := t[week][day][slot]
	return e, ok
}

// Set stores an entry at the given cell, creating intermediate maps as
// needed. Callers are responsible for index validation.
func (t Timetable) Set(week, day, slot int, e EventEntry) {
	if t[week] == nil {
		t[week] = make(map[int]map[int]EventEntry)
	}
	if t[week][day] == nil {
		t[week][day] = make(map[int]EventEntry)
	}
	t[week][day][slot] = e
}

// Delete removes the entry at the given cell if present.
func (t Timetable) Delete(week, day, slot int) {
	delete(t[week][day], slot)
}

// Week returns the day -> slot -> entry mapping for one week.
func (t Timetable) Week(week int) map[int]map[int]EventEntry {
	return t[week]
}

// Customization carries the user-edited slot label list. A non-empty list
// overrides the labels derived from ScheduleConfig. The JSON shape mirrors
// the persisted document's customization block.
type Customization struct {
	CustomTimeSlots []string `json:"customTimeSlots,omitempty"`
}

// Document is the single persisted record of the application.
type Document struct {
	Config        ScheduleConfig       `json:"config"`
	Timetable     Timetable            `json:"timetableData"`
	Settings      NotificationSettings `json:"notificationSettings"`
	CurrentWeek   int                  `json:"currentWeek"`
	Customization Customization        `json:"customization"`
	ExportDate    string               `json:"exportDate,omitempty"`
}

// DefaultDocument returns the state used when nothing is persisted yet or
// the stored record is unreadable.
func DefaultDocument() Document {
	cfg := DefaultScheduleConfig()
	return Document{
		Config:    cfg,
		Timetable: NewTimetable(cfg),
		Settings:  DefaultNotificationSettings(),
	}
}
