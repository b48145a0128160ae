package client

import (
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/somaarjun/portfolio/backend/internal/assistant"
	"github.com/somaarjun/portfolio/backend/internal/model/chat"
	"github.com/somaarjun/portfolio/backend/internal/model/portfolio"
	"github.com/somaarjun/portfolio/backend/internal/navigation"
	aiService "github.com/somaarjun/portfolio/backend/internal/service/ai"
)

var (
	ErrPending = errors.New("a chat request is already pending")
	ErrEmpty   = errors.New("message is empty")
	ErrClosed  = errors.New("session closed")
	ErrUnknown = errors.New("unknown quick action")
)

// DefaultNoticeTTL 是错误提示自动消失前的停留时间。
const DefaultNoticeTTL = 5 * time.Second

// ChatAPI sends one chat turn to the relay.
type ChatAPI interface {
	Chat(ctx context.Context, req aiService.Request) (*aiService.Reply, error)
}

// PortfolioAPI fetches the portfolio document.
type PortfolioAPI interface {
	PortfolioData(ctx context.Context) (portfolio.Document, error)
}

// Options configures a Session.
type Options struct {
	Manifest assistant.Manifest
	// OnState is called on the event loop after every applied event.
	OnState func(State)
	// NoticeTTL dismisses failure notices automatically; negative keeps them.
	NoticeTTL time.Duration
	Now       func() time.Time
}

// Session serialises every visitor action and network completion onto one
// event loop that owns the State.
type Session struct {
	api       ChatAPI
	manifest  assistant.Manifest
	router    *navigation.Router
	onState   func(State)
	noticeTTL time.Duration
	now       func() time.Time

	queue   chan func(*State)
	current atomic.Pointer[State]

	ctx       context.Context
	cancel    context.CancelFunc
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewSession starts the event loop. A zero Manifest uses the embedded
// assistant profile. OnState must not call back into the Session.
func NewSession(api ChatAPI, opts Options) *Session {
	if opts.Manifest.Actions == nil && opts.Manifest.Apology == "" {
		opts.Manifest = assistant.Default().Manifest()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NoticeTTL == 0 {
		opts.NoticeTTL = DefaultNoticeTTL
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		api:       api,
		manifest:  opts.Manifest,
		router:    navigation.NewRouter(opts.Manifest.Vocabulary(), opts.Manifest.DisplayDelay()),
		onState:   opts.OnState,
		noticeTTL: opts.NoticeTTL,
		now:       opts.Now,
		queue:     make(chan func(*State), 32),
		ctx:       ctx,
		cancel:    cancel,
		stopped:   make(chan struct{}),
	}
	s.router.OnChange(s.onTransition)

	var initial State
	if greeting := strings.TrimSpace(opts.Manifest.Greeting); greeting != "" {
		initial = Initial(s.newMessage(greeting, chat.RoleAssistant))
	} else {
		initial = Initial(chat.Message{})
	}
	s.current.Store(&initial)

	go s.run(initial)
	return s
}

func (s *Session) run(state State) {
	defer close(s.stopped)
	for {
		select {
		case <-s.ctx.Done():
			return
		case op := <-s.queue:
			op(&state)
			snapshot := state
			s.current.Store(&snapshot)
			if s.onState != nil {
				s.onState(snapshot)
			}
		}
	}
}

func (s *Session) post(op func(*State)) error {
	select {
	case <-s.ctx.Done():
		return ErrClosed
	case s.queue <- op:
		return nil
	}
}

// Dispatch applies e through the reducer on the event loop.
func (s *Session) Dispatch(e Event) error {
	return s.post(func(st *State) {
		*st = Reduce(*st, e)
	})
}

// Snapshot returns the state after the most recently applied event.
func (s *Session) Snapshot() State {
	return *s.current.Load()
}

// Submit sends text to the relay. While a request is outstanding it returns
// ErrPending and issues no call.
func (s *Session) Submit(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmpty
	}

	result := make(chan error, 1)
	err := s.post(func(st *State) {
		if st.Pending {
			result <- ErrPending
			return
		}
		history := slices.Clone(st.History)
		*st = Reduce(*st, MessageSubmitted{Message: s.newMessage(text, chat.RoleUser)})
		result <- nil
		go s.call(text, history)
	})
	if err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-s.ctx.Done():
		return ErrClosed
	}
}

// QuickAction submits the canned prompt for tag.
func (s *Session) QuickAction(tag string) error {
	for _, qa := range s.manifest.QuickActions {
		if strings.EqualFold(qa.Tag, tag) {
			return s.Submit(qa.Prompt)
		}
	}
	return ErrUnknown
}

// Select switches section immediately, cancelling any tag-driven transition
// still waiting on its delay. It works while a chat request is pending.
func (s *Session) Select(section navigation.Section) error {
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	return s.router.Select(section)
}

// DismissNotice clears the failure notice.
func (s *Session) DismissNotice() error {
	return s.Dispatch(NoticeDismissed{})
}

// LoadPortfolio fetches the document off the loop; it may overlap a chat call.
func (s *Session) LoadPortfolio(api PortfolioAPI) {
	go func() {
		doc, err := api.PortfolioData(s.ctx)
		if err != nil {
			log.Printf("[client] portfolio fetch failed: %v", err)
			return
		}
		s.Dispatch(PortfolioLoaded{Document: doc})
	}()
}

// CountVisit records this session in store and publishes the new count.
func (s *Session) CountVisit(store *VisitStore) {
	count, err := store.Increment()
	if err != nil {
		log.Printf("[client] visit counter: %v", err)
		if count == 0 {
			return
		}
	}
	s.Dispatch(VisitorCounted{Count: count})
}

// Close stops the loop and any pending transition. Outstanding calls are
// abandoned.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.router.Stop()
		s.cancel()
		<-s.stopped
	})
}

func (s *Session) call(text string, history []chat.Turn) {
	reply, err := s.api.Chat(s.ctx, aiService.Request{Message: text, ConversationHistory: history})
	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		log.Printf("[client] chat failed: %v", err)
		apology := s.newMessage(s.manifest.Apology, chat.RoleAssistant)
		s.Dispatch(ReplyFailed{
			Message: apology,
			Notice:  s.manifest.Notice,
			Err:     err,
		})
		if s.noticeTTL > 0 {
			time.AfterFunc(s.noticeTTL, func() { s.Dispatch(NoticeDismissed{ID: apology.ID}) })
		}
		return
	}

	if err := s.Dispatch(ReplyReceived{
		Message: s.newMessage(reply.Message, chat.RoleAssistant),
		History: reply.ConversationHistory,
		Action:  reply.Action,
	}); err != nil {
		return
	}

	if reply.Action != "" {
		s.router.Apply(reply.Action)
	}
}

// onTransition runs outside the loop goroutine: on the caller of Select,
// on the chat goroutine, or on the router's timer.
func (s *Session) onTransition(t navigation.Transition) {
	if t.Tag == "" {
		s.Dispatch(SectionSelected{Section: t.To})
		return
	}
	s.Dispatch(Navigated{Section: t.To, Tag: t.Tag})
}

func (s *Session) newMessage(content string, origin chat.Role) chat.Message {
	return chat.Message{
		ID:        uuid.NewString(),
		Content:   content,
		Origin:    origin,
		Timestamp: s.now().UTC(),
	}
}
