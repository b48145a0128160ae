package contact

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/somaarjun/portfolio/backend/internal/middleware"
	model "github.com/somaarjun/portfolio/backend/internal/model/contact"
	contactService "github.com/somaarjun/portfolio/backend/internal/service/contact"
	"github.com/somaarjun/portfolio/backend/pkg/utils"
)

const successMessage = "Your message has been sent successfully! We'll get back to you soon."

// Submitter 接收联系表单。
type Submitter interface {
	Submit(ctx context.Context, form model.Form) (model.Submission, error)
}

// Handler 联系表单的HTTP处理器
type Handler struct {
	contacts Submitter
}

// New 创建联系表单处理器
func New(contacts Submitter) *Handler {
	return &Handler{contacts: contacts}
}

// RegisterRoutes 注册联系表单路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/contact", h.handleSubmit)
	r.Options("/contact", middleware.Preflight)
}

type successResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SubmissionID string `json:"submissionId"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var form model.Form
	if err := utils.DecodeJSON(w, r, &form); err != nil {
		utils.RespondJSON(w, http.StatusBadRequest, failureResponse{Error: "Invalid request body"})
		return
	}

	submission, err := h.contacts.Submit(r.Context(), form)
	switch {
	case err == nil:
		utils.RespondJSON(w, http.StatusOK, successResponse{
			Success:      true,
			Message:      successMessage,
			SubmissionID: submission.ID,
		})
	case errors.Is(err, contactService.ErrInvalidEmail):
		utils.RespondJSON(w, http.StatusBadRequest, failureResponse{Error: "Invalid email format"})
	case errors.Is(err, contactService.ErrMissingField):
		utils.RespondJSON(w, http.StatusBadRequest, failureResponse{Error: "All fields are required"})
	default:
		log.Printf("[contact] submission failed: %v", err)
		utils.RespondJSON(w, http.StatusInternalServerError, failureResponse{Error: "Internal server error. Please try again later."})
	}
}
