// Package discord relays prefixed Discord messages to the portfolio assistant.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/somaarjun/portfolio/backend/internal/config"
	"github.com/somaarjun/portfolio/backend/internal/model/chat"
	aiService "github.com/somaarjun/portfolio/backend/internal/service/ai"
	chatService "github.com/somaarjun/portfolio/backend/internal/service/chat"
)

const (
	// Discord rejects messages longer than 2000 characters.
	messageLimit = 2000
	chunkSize    = 1900
	historyLimit = 20
	replyTimeout = 60 * time.Second
)

// Relay answers one chat turn.
type Relay interface {
	Reply(ctx context.Context, req aiService.Request) (*aiService.Reply, error)
}

// Bot 将 Discord 频道消息转发给聊天中继，并按频道保存对话记录。
type Bot struct {
	session     *discordgo.Session
	relay       Relay
	transcripts *chatService.Service
	prefix      string
}

// New prepares the bot without connecting. Call Start to open the gateway.
func New(cfg config.DiscordConfig, relay Relay, transcripts *chatService.Service) (*Bot, error) {
	if !cfg.Enabled() {
		return nil, errors.New("DISCORD_BOT_TOKEN not set")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	bot := newBot(relay, transcripts, cfg.CommandPrefix)
	bot.session = session

	session.AddHandler(func(_ *discordgo.Session, ready *discordgo.Ready) {
		log.Printf("[discord] online as %s in %d servers", ready.User.Username, len(ready.Guilds))
	})
	session.AddHandler(bot.messageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return bot, nil
}

func newBot(relay Relay, transcripts *chatService.Service, prefix string) *Bot {
	if prefix == "" {
		prefix = "!ask "
	}
	return &Bot{relay: relay, transcripts: transcripts, prefix: prefix}
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord connection: %w", err)
	}
	log.Printf("[discord] listening for %q", b.prefix)
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	if b.session == nil {
		return nil
	}
	return b.session.Close()
}

func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.prefix) {
		return
	}

	if err := s.ChannelTyping(m.ChannelID); err != nil {
		log.Printf("[discord] typing indicator: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	for i, chunk := range b.Handle(ctx, m.ChannelID, m.Content) {
		if i > 0 {
			// 避免触发频率限制
			time.Sleep(200 * time.Millisecond)
		}
		if _, err := s.ChannelMessageSend(m.ChannelID, chunk); err != nil {
			log.Printf("[discord] send to %s failed: %v", m.ChannelID, err)
			return
		}
	}
}

// Handle turns one prefixed message into the reply chunks to post. Content
// without the prefix yields nil.
func (b *Bot) Handle(ctx context.Context, channelID, content string) []string {
	if !strings.HasPrefix(content, b.prefix) {
		return nil
	}
	text := strings.TrimSpace(content[len(b.prefix):])

	switch {
	case text == "":
		return []string{fmt.Sprintf("Please provide a message after `%s`", strings.TrimSpace(b.prefix))}
	case strings.EqualFold(text, "reset"):
		b.transcripts.Reset(ctx, channelID)
		return []string{"Conversation cleared."}
	}

	session, err := b.transcripts.EnsureSession(ctx, channelID)
	if err != nil {
		log.Printf("[discord] session for %s: %v", channelID, err)
		return []string{failureText(err)}
	}

	history, err := b.transcripts.History(ctx, session.ID, historyLimit)
	if err != nil {
		log.Printf("[discord] history for %s: %v", channelID, err)
		history = nil
	}

	reply, err := b.relay.Reply(ctx, aiService.Request{Message: text, ConversationHistory: history})
	if err != nil {
		log.Printf("[discord] relay failed for %s: %v", channelID, err)
		return []string{failureText(err)}
	}

	for _, turn := range []chat.Turn{chat.UserTurn(text), chat.AssistantTurn(reply.Message)} {
		entry := chat.Entry{SessionID: session.ID, Role: turn.Role, Content: turn.Content}
		if err := b.transcripts.SaveMessage(ctx, entry); err != nil {
			log.Printf("[discord] save transcript: %v", err)
		}
	}

	body := reply.Message
	if reply.Section != "" {
		body += fmt.Sprintf("\n\n*See the %s section of the portfolio.*", sectionTitle(reply.Section.String()))
	}
	return splitMessage(body, chunkSize)
}

func sectionTitle(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func failureText(err error) string {
	if errors.Is(err, aiService.ErrNotConfigured) {
		return "The assistant is not configured right now."
	}
	return "Failed to get AI response. Please try again later."
}

// splitMessage 在 maxLength 以内按单词边界切分长消息，并标注续接。
func splitMessage(message string, maxLength int) []string {
	if len(message) <= maxLength {
		return []string{message}
	}

	var chunks []string
	for len(message) > maxLength {
		cut := maxLength
		if space := strings.LastIndex(message[:maxLength], " "); space > maxLength/2 {
			cut = space
		}
		for cut > 0 && !utf8.RuneStart(message[cut]) {
			cut--
		}
		chunks = append(chunks, message[:cut])
		message = strings.TrimPrefix(message[cut:], " ")
	}
	if message != "" {
		chunks = append(chunks, message)
	}

	for i := range chunks {
		if i > 0 {
			chunks[i] = "...continued:\n" + chunks[i]
		}
		if i < len(chunks)-1 {
			chunks[i] += "\n..."
		}
	}
	return chunks
}
