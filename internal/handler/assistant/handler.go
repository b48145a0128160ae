package assistant

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/somaarjun/portfolio/backend/internal/assistant"
	"github.com/somaarjun/portfolio/backend/internal/middleware"
	"github.com/somaarjun/portfolio/backend/pkg/utils"
)

// ProfileSource 提供当前生效的助手配置。
type ProfileSource interface {
	Current() *assistant.Profile
}

// Handler 助手信息的HTTP处理器
type Handler struct {
	profiles ProfileSource
}

// New 创建助手信息处理器
func New(profiles ProfileSource) *Handler {
	return &Handler{profiles: profiles}
}

// RegisterRoutes 注册助手相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assistant", h.handleManifest)
	r.Options("/assistant", middleware.Preflight)
}

// handleManifest 返回问候语、快捷操作和动作词表
func (h *Handler) handleManifest(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profiles.Current().Manifest())
}
