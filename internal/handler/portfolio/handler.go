package portfolio

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/somaarjun/portfolio/backend/internal/middleware"
	model "github.com/somaarjun/portfolio/backend/internal/model/portfolio"
	portfolioService "github.com/somaarjun/portfolio/backend/internal/service/portfolio"
	"github.com/somaarjun/portfolio/backend/pkg/utils"
)

// DocumentProvider 提供作品集文档。
type DocumentProvider interface {
	Document(ctx context.Context) model.Document
}

// Handler 作品集相关的HTTP处理器
type Handler struct {
	documents DocumentProvider
}

// New 创建作品集处理器
func New(documents DocumentProvider) *Handler {
	return &Handler{documents: documents}
}

// RegisterRoutes 注册作品集路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolio-data", h.handleDocument)
	r.Options("/portfolio-data", middleware.Preflight)

	r.Get("/placeholder-image/{id}", h.handleImage)
	r.Options("/placeholder-image/{id}", middleware.Preflight)
}

func (h *Handler) handleDocument(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.documents.Document(r.Context()))
}

func (h *Handler) handleImage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, portfolioService.ImageURL(chi.URLParam(r, "id")), http.StatusFound)
}
