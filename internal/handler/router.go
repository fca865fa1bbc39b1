package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	assistantHandler "github.com/zhouzirui/genie/internal/handler/assistant"
	"github.com/zhouzirui/genie/internal/handler/chat"
	"github.com/zhouzirui/genie/internal/handler/web"
	"github.com/zhouzirui/genie/internal/logging"
	"github.com/zhouzirui/genie/internal/model/assistant"
	chatService "github.com/zhouzirui/genie/internal/service/chat"
	"github.com/zhouzirui/genie/pkg/utils"
)

// NewAPIRouter wires the chat backend routes. A nil responder leaves the
// chat endpoint answering 503.
func NewAPIRouter(profiles assistant.Store, chatSvc *chatService.Service, responder chat.Responder) http.Handler {
	r := newBaseRouter("api")

	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		assistantHandler.New(profiles).RegisterRoutes(api)
		chat.New(chatSvc, responder).RegisterRoutes(api)
	})

	return r
}

// NewWebRouter wires the chat page and its live channel.
func NewWebRouter(pages *web.Handler) http.Handler {
	r := newBaseRouter("web")
	pages.RegisterRoutes(r)
	return r
}

func newBaseRouter(component string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(component))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}
