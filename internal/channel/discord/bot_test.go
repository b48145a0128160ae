package discord

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somaarjun/portfolio/backend/internal/model/chat"
	"github.com/somaarjun/portfolio/backend/internal/navigation"
	aiService "github.com/somaarjun/portfolio/backend/internal/service/ai"
	chatService "github.com/somaarjun/portfolio/backend/internal/service/chat"
)

type stubRelay struct {
	reply *aiService.Reply
	err   error
	got   []aiService.Request
}

func (s *stubRelay) Reply(_ context.Context, req aiService.Request) (*aiService.Reply, error) {
	s.got = append(s.got, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

func TestHandleIgnoresUnprefixed(t *testing.T) {
	bot := newBot(&stubRelay{}, chatService.NewService(), "!ask ")
	assert.Nil(t, bot.Handle(context.Background(), "c1", "hello there"))
}

func TestHandleEmptyPrompt(t *testing.T) {
	relay := &stubRelay{}
	bot := newBot(relay, chatService.NewService(), "!ask ")

	out := bot.Handle(context.Background(), "c1", "!ask    ")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "`!ask`")
	assert.Empty(t, relay.got)
}

func TestHandleKeepsChannelHistory(t *testing.T) {
	relay := &stubRelay{reply: &aiService.Reply{Message: "He knows Go.", Section: navigation.Skills}}
	transcripts := chatService.NewService()
	bot := newBot(relay, transcripts, "!ask ")
	ctx := context.Background()

	out := bot.Handle(ctx, "c1", "!ask what does he know?")
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "He knows Go."))
	assert.Contains(t, out[0], "Skills section")

	bot.Handle(ctx, "c1", "!ask anything else?")
	require.Len(t, relay.got, 2)
	assert.Empty(t, relay.got[0].ConversationHistory)
	assert.Equal(t, []chat.Turn{
		chat.UserTurn("what does he know?"),
		chat.AssistantTurn("He knows Go."),
	}, relay.got[1].ConversationHistory)

	// 其他频道互不影响
	bot.Handle(ctx, "c2", "!ask hi")
	assert.Empty(t, relay.got[2].ConversationHistory)
}

func TestHandleReset(t *testing.T) {
	relay := &stubRelay{reply: &aiService.Reply{Message: "ok"}}
	bot := newBot(relay, chatService.NewService(), "!ask ")
	ctx := context.Background()

	bot.Handle(ctx, "c1", "!ask first")
	assert.Equal(t, []string{"Conversation cleared."}, bot.Handle(ctx, "c1", "!ask RESET"))
	bot.Handle(ctx, "c1", "!ask second")

	require.Len(t, relay.got, 2)
	assert.Empty(t, relay.got[1].ConversationHistory)
}

func TestHandleRelayFailure(t *testing.T) {
	transcripts := chatService.NewService()
	bot := newBot(&stubRelay{err: aiService.ErrNotConfigured}, transcripts, "!ask ")
	ctx := context.Background()

	out := bot.Handle(ctx, "c1", "!ask hi")
	assert.Equal(t, []string{"The assistant is not configured right now."}, out)

	session, err := transcripts.EnsureSession(ctx, "c1")
	require.NoError(t, err)
	history, err := transcripts.History(ctx, session.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	bot.relay = &stubRelay{err: errors.New("timeout")}
	assert.Equal(t, []string{"Failed to get AI response. Please try again later."}, bot.Handle(ctx, "c1", "!ask hi"))
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", chunkSize))

	long := strings.Repeat("word ", 1000)
	chunks := splitMessage(strings.TrimSpace(long), chunkSize)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, len(c), messageLimit)
		if i > 0 {
			assert.True(t, strings.HasPrefix(c, "...continued:\n"))
		}
		if i < len(chunks)-1 {
			assert.True(t, strings.HasSuffix(c, "\n..."))
		}
	}

	unbroken := strings.Repeat("é", 1500)
	for _, c := range splitMessage(unbroken, chunkSize) {
		assert.NotContains(t, c, "�")
		assert.True(t, strings.ToValidUTF8(c, "?") == c)
	}
}
