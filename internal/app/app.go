// Package app owns the application state: the timetable document, the
// notification scheduler and the persistence store. The UI layer is an
// external collaborator; it calls the mutation operations here and renders
// whatever state it reads back.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AquaCheese/timetable/internal/export"
	"github.com/AquaCheese/timetable/internal/model"
	"github.com/AquaCheese/timetable/internal/notify"
	"github.com/AquaCheese/timetable/internal/slots"
	"github.com/AquaCheese/timetable/internal/store"
)

// App is the explicit application-state struct: no hidden singletons, every
// component receives it (or a piece of it) by reference. The mutex guards
// the document against the daily refresh job running alongside UI-driven
// mutations.
type App struct {
	store     store.Store
	scheduler *notify.Scheduler
	perm      notify.PermissionSource
	sink      notify.Sink
	logger    zerolog.Logger
	clock     func() time.Time

	mu  sync.Mutex
	doc model.Document
}

// Option customizes an App.
type Option func(*App)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(a *App) { a.clock = clock }
}

// New creates an App around the given collaborators. Call Load to restore
// persisted state and arm triggers.
func New(st store.Store, scheduler *notify.Scheduler, perm notify.PermissionSource, sink notify.Sink, logger zerolog.Logger, opts ...Option) *App {
	a := &App{
		store:     st,
		scheduler: scheduler,
		perm:      perm,
		sink:      sink,
		logger:    logger,
		clock:     time.Now,
		doc:       model.DefaultDocument(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load restores the persisted document (falling back to defaults when
// missing or corrupt) and re-arms triggers from it.
func (a *App) Load(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.doc = store.LoadDocument(ctx, a.store, a.logger)
	a.rearmLocked()
}

// Save persists the current document.
func (a *App) Save(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return store.SaveDocument(ctx, a.store, a.doc)
}

// Document returns a snapshot of the current document.
func (a *App) Document() model.Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc
}

// SlotLabels returns the active ordered slot labels: the user-edited custom
// list when present, otherwise the labels derived from the schedule config.
func (a *App) SlotLabels() ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.slotLabelsLocked()
}

func (a *App) slotLabelsLocked() ([]string, error) {
	if len(a.doc.Customization.CustomTimeSlots) > 0 {
		return a.doc.Customization.CustomTimeSlots, nil
	}

	start, err := slots.ParseClock(a.doc.Config.StartTime)
	if err != nil {
		return nil, fmt.Errorf("schedule start time: %w", err)
	}
	end, err := slots.ParseClock(a.doc.Config.EndTime)
	if err != nil {
		return nil, fmt.Errorf("schedule end time: %w", err)
	}
	if end <= start {
		return nil, fmt.Errorf("schedule end %q not after start %q", a.doc.Config.EndTime, a.doc.Config.StartTime)
	}
	return slots.Labels(start, end, a.doc.Config.SlotDuration), nil
}

// Generate replaces the schedule config and discards every event entry.
// The previous grid, including entries in other weeks, is gone; armed
// triggers are re-derived from the empty grid.
func (a *App) Generate(cfg model.ScheduleConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("generate timetable: %w", err)
	}
	start, err := slots.ParseClock(cfg.StartTime)
	if err != nil {
		return fmt.Errorf("generate timetable: %w", err)
	}
	end, err := slots.ParseClock(cfg.EndTime)
	if err != nil {
		return fmt.Errorf("generate timetable: %w", err)
	}
	if end <= start {
		return fmt.Errorf("generate timetable: end %q not after start %q", cfg.EndTime, cfg.StartTime)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.doc.Config = cfg
	a.doc.Timetable = model.NewTimetable(cfg)
	a.doc.CurrentWeek = 0
	a.rearmLocked()
	return nil
}

// SlotInput is the editable portion of a timetable cell.
type SlotInput struct {
	Subject    string
	Location   string
	Instructor string
	Notes      string
	Color      string
	Notify     bool
}

// SaveSlot creates, updates or deletes the entry at the given cell. An
// empty subject deletes the cell entirely; a deleted cell is absent, never
// present with empty fields.
func (a *App) SaveSlot(week, day, slot int, in SlotInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	labels, err := a.slotLabelsLocked()
	if err != nil {
		return fmt.Errorf("save slot: %w", err)
	}
	if week < 0 || week >= a.doc.Config.Weeks {
		return fmt.Errorf("save slot: week %d out of range [0,%d)", week, a.doc.Config.Weeks)
	}
	if day < 0 || day >= a.doc.Config.Days {
		return fmt.Errorf("save slot: day %d out of range [0,%d)", day, a.doc.Config.Days)
	}
	if slot < 0 || slot >= len(labels) {
		return fmt.Errorf("save slot: slot %d out of range [0,%d)", slot, len(labels))
	}

	if in.Subject == "" {
		a.doc.Timetable.Delete(week, day, slot)
		a.rearmLocked()
		return nil
	}

	color := in.Color
	if color == "" {
		color = "blue"
	}
	a.doc.Timetable.Set(week, day, slot, model.EventEntry{
		Subject:       in.Subject,
		Location:      in.Location,
		Instructor:    in.Instructor,
		Notes:         in.Notes,
		Color:         color,
		Notifications: in.Notify,
		Time:          labels[slot],
		DayName:       model.DayNames[day],
	})
	a.rearmLocked()
	return nil
}

// ClearSlot removes the entry at the given cell.
func (a *App) ClearSlot(week, day, slot int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.doc.Timetable.Delete(week, day, slot)
	a.rearmLocked()
}

// Reset discards every event entry, keeping the schedule config, and
// cancels all armed triggers.
func (a *App) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.doc.Timetable = model.NewTimetable(a.doc.Config)
	a.scheduler.CancelAll()
}

// SelectWeek changes the displayed week. Triggers are not re-armed here;
// the next re-arm pass reads the newly selected week.
func (a *App) SelectWeek(week int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if week < 0 || week >= a.doc.Config.Weeks {
		return fmt.Errorf("select week: %d out of range [0,%d)", week, a.doc.Config.Weeks)
	}
	a.doc.CurrentWeek = week
	return nil
}

// CurrentWeek returns the displayed week index.
func (a *App) CurrentWeek() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.CurrentWeek
}

// UpdateSettings replaces the notification preference toggles, re-arms and
// persists. Custom lead times are normalized on the way in.
func (a *App) UpdateSettings(ctx context.Context, s model.NotificationSettings) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s.CustomTimes = model.NormalizeCustomTimes(s.CustomTimes)
	a.doc.Settings = s
	a.rearmLocked()
	return store.SaveDocument(ctx, a.store, a.doc)
}

// SetCustomTimes replaces the custom lead times, re-arms and persists.
func (a *App) SetCustomTimes(ctx context.Context, values []int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.doc.Settings.SetCustomTimes(values)
	a.rearmLocked()
	return store.SaveDocument(ctx, a.store, a.doc)
}

// SetCustomSlotLabels replaces the user-edited slot label list. An empty
// list reverts to labels derived from the schedule config.
func (a *App) SetCustomSlotLabels(ctx context.Context, labels []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.doc.Customization.CustomTimeSlots = labels
	a.rearmLocked()
	return store.SaveDocument(ctx, a.store, a.doc)
}

// EnableNotifications requests delivery permission and, when granted,
// switches notifications on, re-arms and persists. A denied or undetermined
// permission leaves the setting untouched and is not an error.
func (a *App) EnableNotifications(ctx context.Context) (notify.Permission, error) {
	perm, err := a.perm.Request(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("notification permission request failed")
	}
	if perm != notify.PermissionGranted {
		return perm, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.doc.Settings.Enabled = true
	a.rearmLocked()
	return perm, store.SaveDocument(ctx, a.store, a.doc)
}

// TestNotification sends an immediate test message through the sink.
func (a *App) TestNotification(ctx context.Context) error {
	if a.perm.Query() != notify.PermissionGranted {
		return fmt.Errorf("test notification: delivery permission not granted")
	}
	return a.sink.Deliver(ctx, notify.Notification{
		Title: "Test Notification",
		Body:  "This is a test notification from your Time Table app!",
		Tag:   "test-notification",
	})
}

// RearmNow forces a full re-arm pass against the current clock. The daily
// refresh job calls this so the rolling two-week arming window keeps
// moving while the document is otherwise untouched.
func (a *App) RearmNow() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rearmLocked()
}

// ExportJSON writes the export document (with exportDate) to w.
func (a *App) ExportJSON(w io.Writer) error {
	a.mu.Lock()
	doc := a.doc
	now := a.clock()
	a.mu.Unlock()
	return export.WriteJSON(w, doc, now)
}

// ExportXLSX writes the timetable workbook to w.
func (a *App) ExportXLSX(w io.Writer) error {
	a.mu.Lock()
	doc := a.doc
	a.mu.Unlock()
	return export.WriteXLSX(w, doc)
}

// ExportFileName returns the conventional JSON export file name for today.
func (a *App) ExportFileName() string {
	return export.FileName(a.clock())
}

func (a *App) rearmLocked() {
	passID := uuid.NewString()
	armed := a.scheduler.Rearm(a.doc.Timetable, a.doc.CurrentWeek, a.doc.Settings, a.clock())
	a.logger.Debug().Str("pass_id", passID).Int("armed", armed).Msg("re-arm pass finished")
}
