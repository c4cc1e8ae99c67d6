package deliver

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/AquaCheese/timetable/internal/notify"
)

// LogSink writes notifications to the application log. It is the default
// sink when no Telegram chat is configured and always reports granted.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a sink logging through the given logger.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(_ context.Context, n notify.Notification) error {
	s.logger.Info().
		Str("tag", n.Tag).
		Str("title", n.Title).
		Bool("require_interaction", n.RequireInteraction).
		Msg(n.Body)
	return nil
}

func (s *LogSink) Query() notify.Permission { return notify.PermissionGranted }

func (s *LogSink) Request(context.Context) (notify.Permission, error) {
	return notify.PermissionGranted, nil
}
