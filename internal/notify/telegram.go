package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// TelegramNotifier pushes operator alerts (invariant violations, game
// summaries) to a set of chats. A nil notifier is a no-op so the engine
// runs without a bot configured.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
}

func NewTelegramNotifier(botToken string, chatIDs []int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatIDs: chatIDs}, nil
}

// Send delivers the message to every configured chat, best-effort.
func (tn *TelegramNotifier) Send(message string) {
	if tn == nil || tn.bot == nil {
		return
	}
	for _, chatID := range tn.chatIDs {
		go func(cid int64) {
			if _, err := tn.bot.Send(tgbotapi.NewMessage(cid, message)); err != nil {
				log.Errorf("telegram message to chat %d: %v", cid, err)
			}
		}(chatID)
	}
}
