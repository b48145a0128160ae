package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/somaarjun/portfolio/backend/internal/model/chat"
)

var (
	ErrChannelRequired = errors.New("channel is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRole     = errors.New("invalid role")
)

// Service keeps server-held transcripts for channels that cannot echo the
// history themselves, such as a Discord channel.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]chat.Session
	byChannel map[string]string
	entries   map[string][]chat.Entry
}

// NewService bootstraps the in-memory transcript store.
func NewService() *Service {
	return &Service{
		sessions:  make(map[string]chat.Session),
		byChannel: make(map[string]string),
		entries:   make(map[string][]chat.Entry),
	}
}

// CreateSession provisions a new session bound to a channel, replacing any
// previous session of that channel.
func (s *Service) CreateSession(_ context.Context, channel string) (chat.Session, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return chat.Session{}, ErrChannelRequired
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		Channel:   channel,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.byChannel[channel] = session.ID
	s.entries[session.ID] = make([]chat.Entry, 0, 16)
	s.mu.Unlock()

	return session, nil
}

// EnsureSession returns the channel's current session, creating one if needed.
func (s *Service) EnsureSession(ctx context.Context, channel string) (chat.Session, error) {
	s.mu.RLock()
	id, ok := s.byChannel[strings.TrimSpace(channel)]
	session := s.sessions[id]
	s.mu.RUnlock()

	if ok {
		return session, nil
	}
	return s.CreateSession(ctx, channel)
}

// SaveMessage appends an entry to the session transcript.
func (s *Service) SaveMessage(_ context.Context, entry chat.Entry) error {
	if entry.SessionID == "" {
		return ErrSessionNotFound
	}
	if !entry.Role.Valid() {
		return ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[entry.SessionID]; !ok {
		return ErrSessionNotFound
	}

	entry.ID = uuid.NewString()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.entries[entry.SessionID] = append(s.entries[entry.SessionID], entry)
	return nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// LoadTranscript returns stored entries for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.entries[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Entry, len(entries))
	copy(copied, entries)
	return copied, nil
}

// History 以 Turn 形式返回最近 limit 条记录，limit <= 0 表示全部。
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	entries, err := s.LoadTranscript(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	turns := make([]chat.Turn, 0, len(entries))
	for _, e := range entries {
		turns = append(turns, chat.Turn{Role: e.Role, Content: e.Content})
	}
	return turns, nil
}

// Reset drops the channel's session so the next message starts over.
func (s *Service) Reset(_ context.Context, channel string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel = strings.TrimSpace(channel)
	if id, ok := s.byChannel[channel]; ok {
		delete(s.byChannel, channel)
		delete(s.sessions, id)
		delete(s.entries, id)
	}
}
