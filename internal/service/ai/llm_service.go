package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/somaarjun/portfolio/backend/internal/analysis/intent"
	"github.com/somaarjun/portfolio/backend/internal/assistant"
	"github.com/somaarjun/portfolio/backend/internal/config"
	"github.com/somaarjun/portfolio/backend/internal/model/chat"
	"github.com/somaarjun/portfolio/backend/internal/model/portfolio"
	"github.com/somaarjun/portfolio/backend/internal/navigation"
)

// ProfileSource yields the assistant profile in effect.
type ProfileSource interface {
	Current() *assistant.Profile
}

// DocumentSource yields the portfolio document the knowledge base is built from.
type DocumentSource interface {
	Get() portfolio.Document
}

// Request is one visitor turn plus the history the client echoes back.
type Request struct {
	Message             string      `json:"message"`
	ConversationHistory []chat.Turn `json:"conversationHistory"`
}

// Reply is the assistant answer and the history the client keeps for the next turn.
type Reply struct {
	Message             string             `json:"message"`
	ConversationHistory []chat.Turn        `json:"conversationHistory"`
	Action              string             `json:"action,omitempty"`
	Section             navigation.Section `json:"section,omitempty"`
}

// Service relays visitor messages to the completion service. It holds no
// conversation state: history travels with every request.
type Service struct {
	chatModel model.ChatModel
	profiles  ProfileSource
	documents DocumentSource
	cfg       config.LLMConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the relay. Without a credential the service is still
// returned, and every call fails with ErrNotConfigured.
func NewService(ctx context.Context, cfg config.LLMConfig, profiles ProfileSource, documents DocumentSource) (*Service, error) {
	if !cfg.Enabled() {
		return &Service{profiles: profiles, documents: documents, cfg: cfg}, nil
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, cfg, profiles, documents)
}

// NewServiceWithModel creates the relay around an existing chat model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel, cfg config.LLMConfig, profiles ProfileSource, documents DocumentSource) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		profiles:  profiles,
		documents: documents,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// Configured reports whether a completion service is wired in.
func (s *Service) Configured() bool {
	return s != nil && s.chain != nil
}

// StreamingEnabled 指示是否开启 SSE 流式输出。
func (s *Service) StreamingEnabled() bool {
	return s.cfg.Stream
}

// Reply sends one turn to the completion service. A single attempt is made.
func (s *Service) Reply(ctx context.Context, req Request) (*Reply, error) {
	message, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	response, err := s.chain.Invoke(ctx, s.buildChainInput(req.ConversationHistory, message))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	return s.finish(req, message, response)
}

// Stream behaves like Reply but forwards content chunks to onDelta as they
// arrive. The returned Reply carries the cleaned full text.
func (s *Service) Stream(ctx context.Context, req Request, onDelta func(string)) (*Reply, error) {
	if !s.StreamingEnabled() {
		reply, err := s.Reply(ctx, req)
		if err == nil && onDelta != nil {
			onDelta(reply.Message)
		}
		return reply, err
	}

	message, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	stream, err := s.chain.Stream(ctx, s.buildChainInput(req.ConversationHistory, message))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 16)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, recvErr)
		}
		if chunk == nil {
			continue
		}
		chunks = append(chunks, chunk)
		if chunk.Content != "" && onDelta != nil {
			onDelta(chunk.Content)
		}
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: empty stream", ErrUpstream)
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	return s.finish(req, message, response)
}

func (s *Service) prepare(req Request) (string, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", ErrMessageRequired
	}

	for i, turn := range req.ConversationHistory {
		if !turn.Role.Valid() {
			return "", fmt.Errorf("%w: entry %d has role %q", ErrInvalidHistory, i, turn.Role)
		}
	}

	if !s.Configured() {
		return "", ErrNotConfigured
	}
	return message, nil
}

// finish 处理模型回复。message 是去掉首尾空白后的文本，历史中保留 req.Message 原文。
func (s *Service) finish(req Request, message string, response *schema.Message) (*Reply, error) {
	history := req.ConversationHistory
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrUpstream)
	}

	profile := s.profiles.Current()
	vocab := profile.Vocabulary()

	tag, text := navigation.ExtractAction(response.Content)
	section, ok := vocab.Lookup(tag)
	if !ok {
		tag, section = "", ""
		if s.cfg.InferActions {
			if decision := intent.Analyze(message, text); decision.Tag != "" {
				if target, known := vocab.Lookup(decision.Tag); known {
					tag, section = decision.Tag, target
				}
			}
		}
	}

	if text == "" {
		// The reply held nothing but a tag.
		text = response.Content
	}

	updated := make([]chat.Turn, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated, chat.UserTurn(req.Message), chat.AssistantTurn(text))

	log.Printf("[ai] reply generated, history=%d, length=%d, action=%q", len(updated), len(text), tag)

	return &Reply{
		Message:             text,
		ConversationHistory: updated,
		Action:              tag,
		Section:             section,
	}, nil
}

func (s *Service) buildChainInput(history []chat.Turn, message string) map[string]any {
	return map[string]any{
		"system":  BuildSystemPrompt(s.profiles.Current(), s.documents.Get()),
		"history": s.buildHistoryMessages(history),
		"query":   message,
	}
}

func (s *Service) buildHistoryMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	start := 0
	if limit := s.cfg.HistoryLimit; limit > 0 && len(turns) > limit {
		start = len(turns) - limit
	}

	history := make([]*schema.Message, 0, len(turns)-start)
	for _, turn := range turns[start:] {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return history
}
