package assistant

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/genie/internal/model/assistant"
	"github.com/zhouzirui/genie/pkg/utils"
)

// Handler 助手档案的HTTP处理器
type Handler struct {
	profiles assistant.Store
}

// New 创建助手档案处理器
func New(profiles assistant.Store) *Handler {
	return &Handler{
		profiles: profiles,
	}
}

// RegisterRoutes 注册助手档案相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assistants", h.handleListProfiles)
	r.Get("/assistants/{assistantID}", h.handleGetProfile)
}

// handleListProfiles 列出所有助手档案，系统提示词不对外返回
func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := h.profiles.List()
	for i := range profiles {
		profiles[i].SystemPrompt = ""
	}
	utils.RespondJSON(w, http.StatusOK, profiles)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profiles.FindByID(chi.URLParam(r, "assistantID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "assistant not found")
		return
	}
	profile.SystemPrompt = ""
	utils.RespondJSON(w, http.StatusOK, profile)
}
