package deliver

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/AquaCheese/timetable/internal/notify"
)

// Telegram message sends are throttled well below Bot API limits.
const (
	sendRate  = rate.Limit(20) // messages per second
	sendBurst = 30
)

// TelegramSink delivers notifications as Telegram messages to a single
// chat. It doubles as the permission source: permission is granted once the
// bot authenticates, so an unreachable or misconfigured bot silently
// suppresses trigger arming instead of failing the scheduler.
type TelegramSink struct {
	token   string
	chatID  int64
	limiter *rate.Limiter
	logger  zerolog.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// NewTelegramSink creates a sink for the given bot token and chat.
// Authentication happens in Request, not here, so a daemon can start
// offline and come online later.
func NewTelegramSink(token string, chatID int64, logger zerolog.Logger) (*TelegramSink, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram sink: empty bot token")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram sink: chat id not set")
	}
	return &TelegramSink{
		token:   token,
		chatID:  chatID,
		limiter: rate.NewLimiter(sendRate, sendBurst),
		logger:  logger,
	}, nil
}

// Deliver sends the notification text to the configured chat.
func (s *TelegramSink) Deliver(ctx context.Context, n notify.Notification) error {
	s.mu.Lock()
	bot := s.bot
	s.mu.Unlock()
	if bot == nil {
		return fmt.Errorf("telegram sink: bot not authenticated")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram sink: rate limiter: %w", err)
	}

	msg := tgbotapi.NewMessage(s.chatID, n.Title+"\n"+n.Body)
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sink: send: %w", err)
	}

	s.logger.Debug().Str("tag", n.Tag).Msg("telegram notification sent")
	return nil
}

// Query reports granted once the bot has authenticated.
func (s *TelegramSink) Query() notify.Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bot != nil {
		return notify.PermissionGranted
	}
	return notify.PermissionUndetermined
}

// Request authenticates the bot if it has not succeeded yet.
func (s *TelegramSink) Request(_ context.Context) (notify.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bot != nil {
		return notify.PermissionGranted, nil
	}

	bot, err := tgbotapi.NewBotAPI(s.token)
	if err != nil {
		return notify.PermissionDenied, fmt.Errorf("telegram sink: authenticate: %w", err)
	}

	s.bot = bot
	s.logger.Info().Str("bot", bot.Self.UserName).Msg("telegram bot authenticated")
	return notify.PermissionGranted, nil
}
