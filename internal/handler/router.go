package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/somaarjun/portfolio/backend/internal/assistant"
	assistantHandler "github.com/somaarjun/portfolio/backend/internal/handler/assistant"
	"github.com/somaarjun/portfolio/backend/internal/handler/chat"
	"github.com/somaarjun/portfolio/backend/internal/handler/contact"
	"github.com/somaarjun/portfolio/backend/internal/handler/portfolio"
	"github.com/somaarjun/portfolio/backend/internal/handler/realtime"
	"github.com/somaarjun/portfolio/backend/internal/handler/stream"
	middlewarePkg "github.com/somaarjun/portfolio/backend/internal/middleware"
	aiService "github.com/somaarjun/portfolio/backend/internal/service/ai"
	contactService "github.com/somaarjun/portfolio/backend/internal/service/contact"
	portfolioService "github.com/somaarjun/portfolio/backend/internal/service/portfolio"
	"github.com/somaarjun/portfolio/backend/pkg/utils"
)

// Services 聚合路由依赖的服务。
type Services struct {
	Relay     *aiService.Service
	Contacts  *contactService.Service
	Portfolio *portfolioService.Service
	Profiles  *assistant.Holder
}

// NewRouter wires HTTP routes to core services. Routes are mounted under
// prefix; an empty prefix mounts them at the root.
func NewRouter(prefix string, svcs Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.MethodNotAllowed(utils.MethodNotAllowed)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "Not found")
	})

	register := func(api chi.Router) {
		chat.New(svcs.Relay).RegisterRoutes(api)
		stream.New(svcs.Relay).RegisterRoutes(api)
		realtime.NewWebSocketHandler(svcs.Relay).RegisterRoutes(api)
		contact.New(svcs.Contacts).RegisterRoutes(api)
		portfolio.New(svcs.Portfolio).RegisterRoutes(api)
		assistantHandler.New(svcs.Profiles).RegisterRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]any{
				"status":        "ok",
				"llmConfigured": svcs.Relay.Configured(),
			})
		})
		api.Options("/health", middlewarePkg.Preflight)
	}

	if prefix == "" {
		register(r)
	} else {
		r.Route(prefix, register)
	}

	return r
}
