package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/genie/internal/model/chat"
	chatService "github.com/zhouzirui/genie/internal/service/chat"
	"github.com/zhouzirui/genie/pkg/utils"
)

// maxPromptBytes bounds the request body of POST /chat.
const maxPromptBytes = 64 << 10

// Responder generates the assistant reply for a conversation.
type Responder interface {
	GenerateReply(ctx context.Context, chatID string, history []chat.Message, userMessage string) (string, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc   *chatService.Service
	responder Responder
}

// New 创建聊天处理器；responder 为 nil 时聊天接口返回 503。
func New(chatSvc *chatService.Service, responder Responder) *Handler {
	return &Handler{
		chatSvc:   chatSvc,
		responder: responder,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/{chatID}", h.handleHistory)
	r.Get("/chats", h.handleSessions)
}

// handleChat 保存用户消息，生成回复并以纯文本返回
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Prompt string `json:"prompt"`
		ChatID string `json:"chatId"`
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPromptBytes)).Decode(&payload); err != nil {
		utils.RespondText(w, http.StatusBadRequest, "Error: invalid request body")
		return
	}

	if strings.TrimSpace(payload.Prompt) == "" {
		utils.RespondText(w, http.StatusBadRequest, "Error: prompt is required")
		return
	}

	chatID, err := normalizeChatID(payload.ChatID)
	if err != nil {
		utils.RespondText(w, http.StatusBadRequest, "Error: chatId must be a UUID")
		return
	}

	if h.responder == nil {
		utils.RespondText(w, http.StatusServiceUnavailable, "Error: chat model is not configured")
		return
	}

	ctx := r.Context()
	if _, err := h.chatSvc.EnsureSession(ctx, chatID); err != nil {
		utils.RespondText(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	history, err := h.chatSvc.LoadTranscript(ctx, chatID)
	if err != nil {
		utils.RespondText(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	if _, err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: chatID,
		Sender:    chat.SenderUser,
		Content:   payload.Prompt,
	}); err != nil {
		utils.RespondText(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	reply, err := h.responder.GenerateReply(ctx, chatID, history, payload.Prompt)
	if err != nil {
		log.Error().Err(err).Str("component", "chat").Str("chat_id", chatID).Msg("reply generation failed")
		status := http.StatusBadGateway
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		utils.RespondText(w, status, "Error: "+err.Error())
		return
	}

	if _, err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: chatID,
		Sender:    chat.SenderAssistant,
		Content:   reply,
	}); err != nil {
		log.Warn().Err(err).Str("component", "chat").Str("chat_id", chatID).Msg("failed to save assistant message")
	}

	utils.RespondText(w, http.StatusOK, reply)
}

// handleHistory 返回会话的消息记录，未知会话返回空数组
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	chatID, err := normalizeChatID(chi.URLParam(r, "chatID"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "chatId must be a UUID")
		return
	}

	messages, err := h.chatSvc.LoadTranscript(r.Context(), chatID)
	if errors.Is(err, chatService.ErrSessionNotFound) {
		messages = []chat.Message{}
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

// handleSessions 列出所有会话，按最近更新时间倒序
func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.ListSessions(r.Context()))
}

func normalizeChatID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
