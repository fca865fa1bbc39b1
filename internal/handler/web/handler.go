// Package web serves the chat page shell and its live channel.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/genie/internal/model/assistant"
	"github.com/zhouzirui/genie/internal/ui/controller"
	"github.com/zhouzirui/genie/internal/ui/page"
	"github.com/zhouzirui/genie/internal/ui/router"
)

//go:embed assets
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "assets/index.html.tmpl"))

// Handler 聊天页面处理器
type Handler struct {
	profile  assistant.Profile
	backend  controller.Backend
	opts     page.Options
	upgrader websocket.Upgrader
}

// New 创建页面处理器，每个 live 连接都会得到一个独立的 page。
func New(profile assistant.Profile, backend controller.Backend, opts page.Options) *Handler {
	return &Handler{
		profile: profile,
		backend: backend,
		opts:    opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册页面、静态资源与 live 通道路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get(router.RootPattern, h.handlePage)
	r.Get(router.ChatPattern, h.handlePage)
	r.Get("/live", h.handleLive)

	static, err := fs.Sub(assets, "assets/static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
}

type pageData struct {
	Profile assistant.Profile
	Path    string
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	if _, err := router.Parse(r.URL.Path); err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, pageData{Profile: h.profile, Path: r.URL.Path}); err != nil {
		log.Error().Err(err).Str("component", "web").Msg("render page failed")
	}
}
