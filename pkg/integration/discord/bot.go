package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/mklimuk/marktask/pkg/dates"
	"github.com/mklimuk/marktask/pkg/integration/chat"
	"github.com/mklimuk/marktask/pkg/tasks"
)

// maxMessageLen is Discord's limit on a single message.
const maxMessageLen = 2000

// Bot wraps the Discord session and dependencies
type Bot struct {
	Session   *discordgo.Session
	Responder *chat.Responder
}

// NewBot creates a new Discord bot
func NewBot(token string, source tasks.Source, resolver *dates.Resolver) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	bot := &Bot{
		Session:   dg,
		Responder: chat.NewResponder(source, resolver, maxMessageLen),
	}

	dg.AddHandler(bot.messageCreate)

	return bot, nil
}

// Start opens the websocket connection
func (b *Bot) Start() error {
	return b.Session.Open()
}

// Stop closes the websocket connection
func (b *Bot) Stop() error {
	return b.Session.Close()
}

func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text := b.answer(ctx, s.State.User.ID, m)
	if text == "" {
		return
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, text); err != nil {
		log.Printf("Failed to send Discord reply: %v", err)
	}
}

// answer replies to commands such as "!tasks +0d +1w". Our own messages
// are ignored.
func (b *Bot) answer(ctx context.Context, selfID string, m *discordgo.MessageCreate) string {
	if m.Author == nil || m.Author.ID == selfID {
		return ""
	}
	return b.Responder.Reply(ctx, m.Content)
}
