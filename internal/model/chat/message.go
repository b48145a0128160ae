package chat

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r may appear in a conversation history.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is one entry of the conversation history echoed between client and relay.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn builds a visitor turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn builds an assistant turn.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Message is a rendered entry of the client conversation log. It never
// changes after creation.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Origin    Role      `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

// Session ties a server-held transcript to a channel, e.g. a Discord channel.
type Session struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entry persists an individual turn of a server-held transcript.
type Entry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
