// Package notify delivers titled alerts to the user through an
// external channel the engine cannot force open: without a configured
// destination, emission attempts are simply dropped.
package notify

import (
	"fmt"
	"html"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier emits a titled alert if the user has granted a channel.
type Notifier interface {
	// Permitted reports whether alerts can currently be delivered.
	Permitted() bool
	// Send delivers one alert. Callers must check Permitted first;
	// sending without permission is an error.
	Send(title, body string) error
}

// TelegramNotifier sends alerts as Telegram messages to a single chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Printf("[info] notifier authorized on account %s", api.Self.UserName)
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) Permitted() bool {
	return n.api != nil && n.chatID != 0
}

func (n *TelegramNotifier) Send(title, body string) error {
	text := fmt.Sprintf("<b>%s</b>", html.EscapeString(title))
	if body != "" {
		text += "\n" + html.EscapeString(body)
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// Disabled is the notifier used when no channel is configured: never
// permitted, so every attempt is dropped.
type Disabled struct{}

func (Disabled) Permitted() bool { return false }

func (Disabled) Send(title, body string) error {
	return fmt.Errorf("notifications are not permitted")
}
