package alerts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// telegramRateLimit caps outgoing messages at Telegram's documented bulk
// ceiling (roughly 30 messages/second across distinct chats) so a burst of
// alerts (e.g. every open position force-exiting at once) doesn't trip the
// bot API's own throttling.
const telegramRateLimit = 25

// TelegramAlerter sends alerts via a Telegram bot to a configurable set of
// chats, fanning out concurrently and rate-limited against the bot API.
type TelegramAlerter struct {
	api     *tgbotapi.BotAPI
	limiter *rate.Limiter

	mu      sync.RWMutex
	chatIDs []int64
}

// NewTelegramAlerter creates a new Telegram-based alerter.
func NewTelegramAlerter(botToken string, chatIDs []int64) (*TelegramAlerter, error) {
	if botToken == "" {
		return nil, fmt.Errorf("alerts: telegram bot token is required")
	}

	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("alerts: create telegram bot api: %w", err)
	}

	log.Info().
		Str("bot_username", api.Self.UserName).
		Int("chat_count", len(chatIDs)).
		Msg("alerts: telegram alerter initialized")

	return &TelegramAlerter{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(telegramRateLimit), telegramRateLimit),
		chatIDs: append([]int64(nil), chatIDs...),
	}, nil
}

// Send delivers alert to every configured chat concurrently, throttled by
// the alerter's rate limiter. It returns a joined error naming every chat
// that failed, or nil if at least the delivery attempt completed without a
// hard failure on all chats.
func (t *TelegramAlerter) Send(ctx context.Context, alert Alert) error {
	targets := t.snapshotChatIDs()
	if len(targets) == 0 {
		log.Warn().Str("alert_title", alert.Title).Msg("alerts: no telegram chat ids configured, skipping")
		return nil
	}

	text := formatTelegramAlert(alert)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		errs     []error
		failures int
	)

	for _, chatID := range targets {
		if err := t.limiter.Wait(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("chat %d: rate limiter: %w", chatID, err))
			failures++
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			msg := tgbotapi.NewMessage(chatID, text)
			msg.ParseMode = "Markdown"

			if _, err := t.api.Send(msg); err != nil {
				log.Error().Err(err).Int64("chat_id", chatID).Str("alert_title", alert.Title).Msg("alerts: telegram send failed")
				mu.Lock()
				errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
				failures++
				mu.Unlock()
			}
		}(chatID)
	}
	wg.Wait()

	if failures == len(targets) && failures > 0 {
		return fmt.Errorf("alerts: telegram delivery failed on all %d chats: %w", failures, errors.Join(errs...))
	}
	if len(errs) > 0 {
		log.Warn().Int("failed", len(errs)).Int("total", len(targets)).Str("alert_title", alert.Title).Msg("alerts: telegram delivery partially failed")
	}
	return nil
}

// formatTelegramAlert renders an alert as a Telegram Markdown message.
func formatTelegramAlert(alert Alert) string {
	var emoji string
	switch alert.Severity {
	case SeverityCritical:
		emoji = "🚨"
	case SeverityWarning:
		emoji = "⚠️"
	case SeverityInfo:
		emoji = "ℹ️"
	default:
		emoji = "📢"
	}

	text := fmt.Sprintf("%s *%s*\n\n%s", emoji, alert.Title, alert.Message)
	if len(alert.Metadata) > 0 {
		text += "\n\n*Details:*"
		for key, value := range alert.Metadata {
			text += fmt.Sprintf("\n• %s: `%v`", key, value)
		}
	}
	return text + fmt.Sprintf("\n\n_%s_", alert.Timestamp.Format(time.RFC3339))
}

func (t *TelegramAlerter) snapshotChatIDs() []int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]int64(nil), t.chatIDs...)
}

// AddChatID registers a chat to receive future alerts, ignoring duplicates.
func (t *TelegramAlerter) AddChatID(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range t.chatIDs {
		if id == chatID {
			return
		}
	}
	t.chatIDs = append(t.chatIDs, chatID)
	log.Info().Int64("chat_id", chatID).Msg("alerts: added telegram chat id")
}

// RemoveChatID drops a chat from the delivery list.
func (t *TelegramAlerter) RemoveChatID(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, id := range t.chatIDs {
		if id == chatID {
			t.chatIDs = append(t.chatIDs[:i], t.chatIDs[i+1:]...)
			log.Info().Int64("chat_id", chatID).Msg("alerts: removed telegram chat id")
			return
		}
	}
}

// GetChatIDs returns the list of currently configured chat IDs.
func (t *TelegramAlerter) GetChatIDs() []int64 {
	return t.snapshotChatIDs()
}

// SetChatIDs replaces the full set of chat IDs.
func (t *TelegramAlerter) SetChatIDs(chatIDs []int64) {
	t.mu.Lock()
	t.chatIDs = append([]int64(nil), chatIDs...)
	t.mu.Unlock()
	log.Info().Int("chat_count", len(chatIDs)).Msg("alerts: replaced telegram chat ids")
}
