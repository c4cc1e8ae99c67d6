package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/AquaCheese/timetable/internal/model"
)

// TriggerKey identifies an armed trigger: one occurrence (this week or
// next) of one event and lead pair. Arming the same key again replaces the
// previous trigger, so edits to an event and lead pair never leak duplicate
// timers, while the two week offsets arm independently — this week's
// trigger must fire even though next week's is also armed.
type TriggerKey struct {
	Day        int
	Subject    string
	Lead       int
	WeekOffset int
}

// Tag is the delivery tag for this key, used by the sink to collapse
// duplicate deliveries. It excludes the week offset: both occurrences of
// an event and lead pair share one tag.
func (k TriggerKey) Tag() string {
	return fmt.Sprintf("slot-%d-%s-%d", k.Day, k.Subject, k.Lead)
}

func (k TriggerKey) String() string { return k.Tag() }

// armedTrigger is one outstanding timed trigger, owned exclusively by the
// scheduler.
type armedTrigger struct {
	key          TriggerKey
	handle       TimerHandle
	fireAt       time.Time
	notification Notification
}

// Scheduler owns the set of armed notification triggers. It moves between
// an idle state (no triggers) and an armed state on every full re-arm pass;
// a firing trigger removes only itself.
//
// Timer callbacks take the same lock as Rearm and CancelAll, so deliveries
// are serialized with state changes and CancelAll guarantees no previously
// armed trigger delivers after it returns.
type Scheduler struct {
	mu       sync.Mutex
	armed    map[TriggerKey]*armedTrigger
	perm     PermissionSource
	sink     Sink
	newTimer TimerFactory
	metrics  *Metrics
	logger   zerolog.Logger
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTimerFactory replaces the timer implementation, mainly for tests.
func WithTimerFactory(f TimerFactory) SchedulerOption {
	return func(s *Scheduler) { s.newTimer = f }
}

// WithMetrics attaches Prometheus metrics to the scheduler.
func WithMetrics(m *Metrics) SchedulerOption {
	return func(s *Scheduler) { s.metrics = m }
}

// NewScheduler creates an idle scheduler delivering through sink when
// perm reports granted.
func NewScheduler(perm PermissionSource, sink Sink, logger zerolog.Logger, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		armed:    make(map[TriggerKey]*armedTrigger),
		perm:     perm,
		sink:     sink,
		newTimer: StandardTimers,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rearm is the full cancel-and-recompute cycle. It cancels every armed
// trigger, then re-derives occurrences and lead times from the given
// timetable and settings and arms fresh triggers for everything still in
// the future relative to now.
//
// Only the current week's entries are read, for both week offsets. Other
// weeks of a multi-week timetable never get notifications while a
// different week is selected.
func (s *Scheduler) Rearm(tt model.Timetable, currentWeek int, settings model.NotificationSettings, now time.Time) int {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelAllLocked()

	if !settings.Enabled || s.perm.Query() != PermissionGranted {
		s.logger.Debug().
			Bool("enabled", settings.Enabled).
			Str("permission", string(s.perm.Query())).
			Msg("notifications suppressed, staying idle")
		return 0
	}

	entries := Entries(settings)
	week := tt.Week(currentWeek)

	for weekOffset := 0; weekOffset <= 1; weekOffset++ {
		for day, dayData := range week {
			for _, event := range dayData {
				if !event.Notifications {
					continue
				}

				occurrence, ok, err := NextOccurrence(event.Time, day, weekOffset, now)
				if err != nil {
					// A malformed slot label skips this entry only; the
					// rest of the pass continues.
					s.logger.Warn().Err(err).
						Str("subject", event.Subject).
						Int("day", day).
						Msg("skipping entry with bad slot time")
					continue
				}
				if !ok {
					continue
				}

				for _, entry := range entries {
					fireAt := occurrence.Add(-time.Duration(entry.Lead) * time.Minute)
					if !fireAt.After(now) {
						continue
					}
					key := TriggerKey{Day: day, Subject: event.Subject, Lead: entry.Lead, WeekOffset: weekOffset}
					s.armLocked(key, fireAt, fireAt.Sub(now), composeNotification(event, key, entry))
				}
			}
		}
	}

	armed := len(s.armed)
	s.metrics.setArmed(armed)
	s.metrics.observeRearm(time.Since(start).Seconds())
	s.logger.Info().
		Int("armed", armed).
		Int("week", currentWeek).
		Time("now", now).
		Msg("triggers re-armed")
	return armed
}

// CancelAll cancels every armed trigger and returns the scheduler to idle.
// It is idempotent and safe to call while idle. No trigger armed before the
// call delivers after it returns.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
	s.metrics.setArmed(0)
}

func (s *Scheduler) cancelAllLocked() {
	for _, tr := range s.armed {
		tr.handle.Stop()
	}
	s.armed = make(map[TriggerKey]*armedTrigger)
}

func (s *Scheduler) armLocked(key TriggerKey, fireAt time.Time, delay time.Duration, n Notification) {
	if existing, ok := s.armed[key]; ok {
		existing.handle.Stop()
	}
	tr := &armedTrigger{key: key, fireAt: fireAt, notification: n}
	tr.handle = s.newTimer(delay, func() { s.fire(key) })
	s.armed[key] = tr
}

// fire runs when a trigger's timer elapses. The trigger removes only
// itself; membership is re-checked under the lock so a trigger cancelled
// after its timer elapsed but before this ran stays silent.
func (s *Scheduler) fire(key TriggerKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.armed[key]
	if !ok {
		return
	}
	delete(s.armed, key)
	s.metrics.setArmed(len(s.armed))

	if err := s.sink.Deliver(context.Background(), tr.notification); err != nil {
		s.metrics.incDelivered("error")
		s.logger.Error().Err(err).Stringer("key", key).Msg("notification delivery failed")
		return
	}
	s.metrics.incDelivered("ok")
	s.logger.Info().Stringer("key", key).Time("fire_at", tr.fireAt).Msg("notification delivered")
}

// ArmedCount returns the number of outstanding triggers.
func (s *Scheduler) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed)
}

// ArmedKeys returns the outstanding trigger keys in a stable order.
func (s *Scheduler) ArmedKeys() []TriggerKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]TriggerKey, 0, len(s.armed))
	for k := range s.armed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Day != keys[j].Day {
			return keys[i].Day < keys[j].Day
		}
		if keys[i].Subject != keys[j].Subject {
			return keys[i].Subject < keys[j].Subject
		}
		if keys[i].Lead != keys[j].Lead {
			return keys[i].Lead < keys[j].Lead
		}
		return keys[i].WeekOffset < keys[j].WeekOffset
	})
	return keys
}

// composeNotification builds the delivery payload for one trigger.
func composeNotification(event model.EventEntry, key TriggerKey, entry Entry) Notification {
	message := fmt.Sprintf("%s starts in %s", event.Subject, entry.Label)
	if entry.Lead == 0 {
		message = fmt.Sprintf("%s is starting now!", event.Subject)
	}

	lines := []string{message}
	if event.Location != "" {
		lines = append(lines, "Location: "+event.Location)
	}
	if event.Instructor != "" {
		lines = append(lines, "Instructor: "+event.Instructor)
	}

	return Notification{
		Title:              "📅 " + event.Subject,
		Body:               strings.Join(lines, "\n"),
		Tag:                key.Tag(),
		RequireInteraction: entry.Lead == 0,
	}
}
