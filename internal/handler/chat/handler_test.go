package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somaarjun/portfolio/backend/internal/model/chat"
	"github.com/somaarjun/portfolio/backend/internal/navigation"
	aiService "github.com/somaarjun/portfolio/backend/internal/service/ai"
	"github.com/somaarjun/portfolio/backend/pkg/utils"
)

type stubRelay struct {
	calls int
	err   error
	got   aiService.Request
}

func (s *stubRelay) Reply(_ context.Context, req aiService.Request) (*aiService.Reply, error) {
	s.calls++
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	if req.Message == "" {
		return nil, aiService.ErrMessageRequired
	}
	history := append(append([]chat.Turn{}, req.ConversationHistory...),
		chat.UserTurn(req.Message), chat.AssistantTurn("Here are my projects."))
	return &aiService.Reply{
		Message:             "Here are my projects.",
		ConversationHistory: history,
		Action:              navigation.TagShowProjects,
		Section:             navigation.Projects,
	}, nil
}

func setupRouter(relay Relay) *chi.Mux {
	r := chi.NewRouter()
	r.MethodNotAllowed(utils.MethodNotAllowed)
	New(relay).RegisterRoutes(r)
	return r
}

func postChat(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatReturnsReplyAndHistory(t *testing.T) {
	relay := &stubRelay{}
	r := setupRouter(relay)

	resp := postChat(t, r, `{"message":"show me your work","conversationHistory":[{"role":"user","content":"hi"},{"role":"assistant","content":"Hello!"}]}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Message             string      `json:"message"`
		ConversationHistory []chat.Turn `json:"conversationHistory"`
		Action              string      `json:"action"`
		Section             string      `json:"section"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))

	assert.Equal(t, "Here are my projects.", payload.Message)
	assert.Len(t, payload.ConversationHistory, 4)
	assert.Equal(t, "show_projects", payload.Action)
	assert.Equal(t, "projects", payload.Section)
	assert.Len(t, relay.got.ConversationHistory, 2)
}

func TestChatMissingHistoryIsEmpty(t *testing.T) {
	relay := &stubRelay{}
	resp := postChat(t, setupRouter(relay), `{"message":"hello"}`)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, relay.got.ConversationHistory)
}

func TestChatErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"missing message", aiService.ErrMessageRequired, http.StatusBadRequest, "Message is required"},
		{"bad history", fmt.Errorf("%w: entry 0", aiService.ErrInvalidHistory), http.StatusBadRequest, "Invalid conversation history"},
		{"no credential", aiService.ErrNotConfigured, http.StatusInternalServerError, "GROQ_API_KEY not configured"},
		{"upstream", fmt.Errorf("%w: 503 from provider", aiService.ErrUpstream), http.StatusInternalServerError, "Failed to get AI response. Please try again later."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postChat(t, setupRouter(&stubRelay{err: tc.err}), `{"message":"hi"}`)

			assert.Equal(t, tc.status, resp.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tc.message), resp.Body.String())
		})
	}
}

func TestChatInvalidBody(t *testing.T) {
	relay := &stubRelay{}
	resp := postChat(t, setupRouter(relay), `{"message":`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, relay.calls)
}

func TestChatMethodNotAllowed(t *testing.T) {
	r := setupRouter(&stubRelay{})
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, resp.Body.String())
}

func TestChatPreflight(t *testing.T) {
	relay := &stubRelay{}
	r := setupRouter(relay)
	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, GET, OPTIONS", resp.Header().Get("Access-Control-Allow-Methods"))
	assert.Zero(t, relay.calls)
}
