package chat

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/somaarjun/portfolio/backend/internal/middleware"
	aiService "github.com/somaarjun/portfolio/backend/internal/service/ai"
	"github.com/somaarjun/portfolio/backend/pkg/utils"
)

const (
	msgNotConfigured = "GROQ_API_KEY not configured"
	msgUpstream      = "Failed to get AI response. Please try again later."
	msgBadBody       = "Invalid request body"
)

// Relay 为聊天接口提供回复。
type Relay interface {
	Reply(ctx context.Context, req aiService.Request) (*aiService.Reply, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	relay Relay
}

// New 创建聊天处理器
func New(relay Relay) *Handler {
	return &Handler{relay: relay}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Options("/chat", middleware.Preflight)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req aiService.Request
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, msgBadBody)
		return
	}

	reply, err := h.relay.Reply(r.Context(), req)
	if err != nil {
		status, message := ErrorStatus(err)
		utils.RespondError(w, status, message)
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

// ErrorStatus maps a relay error to the HTTP status and the message shown to
// the visitor. Upstream details are logged, never returned.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, aiService.ErrMessageRequired):
		return http.StatusBadRequest, "Message is required"
	case errors.Is(err, aiService.ErrInvalidHistory):
		return http.StatusBadRequest, "Invalid conversation history"
	case errors.Is(err, aiService.ErrNotConfigured):
		log.Printf("[chat] relay misconfigured: %v", err)
		return http.StatusInternalServerError, msgNotConfigured
	default:
		log.Printf("[chat] relay failed: %v", err)
		return http.StatusInternalServerError, msgUpstream
	}
}
