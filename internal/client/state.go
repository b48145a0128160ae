// Package client models the visitor-side application: the conversation log,
// the active portfolio section and the pending-request flag, all updated by a
// pure reducer and driven by a single event loop.
package client

import (
	"slices"

	"github.com/somaarjun/portfolio/backend/internal/assistant"
	"github.com/somaarjun/portfolio/backend/internal/model/chat"
	"github.com/somaarjun/portfolio/backend/internal/model/portfolio"
	"github.com/somaarjun/portfolio/backend/internal/navigation"
)

// State 是客户端的完整应用状态。Values are never mutated in place: Reduce
// returns a new State that may share read-only backing arrays with the old one.
type State struct {
	Active       navigation.Section
	Conversation []chat.Message
	History      []chat.Turn
	Pending      bool
	Notice       *assistant.Notice
	// NoticeID is the ID of the apology message that raised Notice.
	NoticeID     string
	VisitorCount int64
	Portfolio    *portfolio.Document
}

// Initial returns the state shown before the first interaction.
func Initial(greeting chat.Message) State {
	s := State{Active: navigation.Welcome}
	if greeting.Content != "" {
		s.Conversation = []chat.Message{greeting}
	}
	return s
}

// Event 是驱动状态变化的事件。
type Event interface {
	event()
}

// SectionSelected is a direct click on a section.
type SectionSelected struct {
	Section navigation.Section
}

// MessageSubmitted records the visitor's message and marks a request pending.
type MessageSubmitted struct {
	Message chat.Message
}

// ReplyReceived carries the assistant answer and the history echoed by the relay.
type ReplyReceived struct {
	Message chat.Message
	History []chat.Turn
	Action  string
}

// ReplyFailed carries the locally generated apology and the notice to raise.
type ReplyFailed struct {
	Message chat.Message
	Notice  assistant.Notice
	Err     error
}

// Navigated is a tag-driven transition that has passed its display delay.
type Navigated struct {
	Section navigation.Section
	Tag     string
}

// NoticeDismissed clears the notice. A non-empty ID only clears the notice
// raised by that apology message; an empty ID clears any notice.
type NoticeDismissed struct {
	ID string
}

type VisitorCounted struct {
	Count int64
}

type PortfolioLoaded struct {
	Document portfolio.Document
}

func (SectionSelected) event()  {}
func (MessageSubmitted) event() {}
func (ReplyReceived) event()    {}
func (ReplyFailed) event()      {}
func (Navigated) event()        {}
func (NoticeDismissed) event()  {}
func (VisitorCounted) event()   {}
func (PortfolioLoaded) event()  {}

// Reduce applies e to s. It has no side effects.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case SectionSelected:
		if ev.Section.Valid() {
			s.Active = ev.Section
		}
	case Navigated:
		if ev.Section.Valid() {
			s.Active = ev.Section
		}
	case MessageSubmitted:
		if s.Pending || ev.Message.Content == "" {
			return s
		}
		s.Conversation = appendMessage(s.Conversation, ev.Message)
		s.Pending = true
	case ReplyReceived:
		s.Conversation = appendMessage(s.Conversation, ev.Message)
		s.History = slices.Clone(ev.History)
		s.Pending = false
	case ReplyFailed:
		s.Conversation = appendMessage(s.Conversation, ev.Message)
		notice := ev.Notice
		s.Notice = &notice
		s.NoticeID = ev.Message.ID
		s.Pending = false
	case NoticeDismissed:
		if ev.ID != "" && ev.ID != s.NoticeID {
			return s
		}
		s.Notice = nil
		s.NoticeID = ""
	case VisitorCounted:
		s.VisitorCount = ev.Count
	case PortfolioLoaded:
		doc := ev.Document.Clone()
		s.Portfolio = &doc
	}
	return s
}

// appendMessage always copies so earlier States keep their own log.
func appendMessage(log []chat.Message, m chat.Message) []chat.Message {
	out := make([]chat.Message, len(log), len(log)+1)
	copy(out, log)
	return append(out, m)
}
