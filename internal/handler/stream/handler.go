package stream

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	chatHandler "github.com/somaarjun/portfolio/backend/internal/handler/chat"
	"github.com/somaarjun/portfolio/backend/internal/middleware"
	aiService "github.com/somaarjun/portfolio/backend/internal/service/ai"
	"github.com/somaarjun/portfolio/backend/pkg/utils"
)

// Streamer produces a reply while reporting content chunks as they arrive.
type Streamer interface {
	Stream(ctx context.Context, req aiService.Request, onDelta func(string)) (*aiService.Reply, error)
}

// Handler manages streaming AI responses via Server-Sent Events
type Handler struct {
	relay Streamer
}

// New creates a new stream handler
func New(relay Streamer) *Handler {
	return &Handler{relay: relay}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RegisterRoutes 注册流式聊天路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/stream", h.handleStream)
	r.Options("/chat/stream", middleware.Preflight)
}

// handleStream 以 SSE 返回回复。The event stream only opens once the first
// chunk arrives, so validation and configuration failures still get a
// regular JSON status.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	var req aiService.Request
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		status, message := chatHandler.ErrorStatus(aiService.ErrMessageRequired)
		utils.RespondError(w, status, message)
		return
	}

	var (
		sse      *utils.SSEWriter
		writeErr error
	)
	open := func() bool {
		if sse != nil {
			return true
		}
		var ok bool
		if sse, ok = utils.NewSSEWriter(w); !ok {
			return false
		}
		w.WriteHeader(http.StatusOK)
		writeErr = sse.Event("start", StreamResponse{})
		return true
	}

	reply, err := h.relay.Stream(r.Context(), req, func(delta string) {
		if writeErr != nil || !open() {
			return
		}
		writeErr = sse.Event("delta", StreamResponse{Content: delta})
	})

	if err != nil {
		status, message := chatHandler.ErrorStatus(err)
		if sse == nil {
			utils.RespondError(w, status, message)
			return
		}
		if sendErr := sse.Event("error", StreamResponse{Error: message}); sendErr != nil {
			log.Printf("[stream] failed to send error event: %v", sendErr)
		}
		return
	}

	if !open() {
		// Without flushing support the whole reply goes out as plain JSON.
		utils.RespondJSON(w, http.StatusOK, reply)
		return
	}
	if writeErr != nil {
		log.Printf("[stream] client went away: %v", writeErr)
		return
	}

	if err := sse.Event("message", reply); err != nil {
		log.Printf("[stream] failed to send message event: %v", err)
		return
	}
	if err := sse.Event("end", StreamResponse{}); err != nil {
		log.Printf("[stream] failed to send end event: %v", err)
	}
}
