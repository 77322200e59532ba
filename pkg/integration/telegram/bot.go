package telegram

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mklimuk/marktask/pkg/dates"
	"github.com/mklimuk/marktask/pkg/integration/chat"
	"github.com/mklimuk/marktask/pkg/tasks"
)

// maxMessageLen is Telegram's limit on a single text message.
const maxMessageLen = 4096

// Bot answers task queries over Telegram.
type Bot struct {
	API       *tgbotapi.BotAPI
	Responder *chat.Responder
	stopCh    chan struct{}
}

// NewBot creates a new Telegram bot
func NewBot(token string, source tasks.Source, resolver *dates.Resolver) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating Telegram bot: %w", err)
	}

	return &Bot{
		API:       api,
		Responder: newResponder(source, resolver),
		stopCh:    make(chan struct{}),
	}, nil
}

func newResponder(source tasks.Source, resolver *dates.Resolver) *chat.Responder {
	return chat.NewResponder(source, resolver, maxMessageLen)
}

// Start begins polling for updates in a goroutine
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.API.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-b.stopCh:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message != nil {
					b.handleMessage(update.Message)
				}
			}
		}
	}()

	return nil
}

// Stop stops polling for updates
func (b *Bot) Stop() {
	close(b.stopCh)
	b.API.StopReceivingUpdates()
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text := b.Responder.Reply(ctx, msg.Text)
	if text == "" {
		return
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := b.API.Send(reply); err != nil {
		log.Printf("Failed to send Telegram reply: %v", err)
	}
}
