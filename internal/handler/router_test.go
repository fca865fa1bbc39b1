package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/genie/internal/handler/web"
	"github.com/zhouzirui/genie/internal/model/assistant"
	"github.com/zhouzirui/genie/internal/model/chat"
	chatService "github.com/zhouzirui/genie/internal/service/chat"
	"github.com/zhouzirui/genie/internal/ui/page"
)

type staticResponder string

func (s staticResponder) GenerateReply(context.Context, string, []chat.Message, string) (string, error) {
	return string(s), nil
}

func TestAPIRouterHealthAndCORS(t *testing.T) {
	r := NewAPIRouter(assistant.NewMemoryStore(assistant.Seed()), chatService.NewService(), staticResponder("Hi there"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"status":"ok"}`, resp.Body.String())

	body := []byte(`{"prompt":"Hello","chatId":"` + uuid.NewString() + `"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "Hi there", resp.Body.String())
	require.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestAPIRouterWithoutResponder(t *testing.T) {
	r := NewAPIRouter(assistant.NewMemoryStore(assistant.Seed()), chatService.NewService(), nil)

	body := []byte(`{"prompt":"Hello","chatId":"` + uuid.NewString() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestWebRouterServesPage(t *testing.T) {
	profile, _ := assistant.Resolve(assistant.NewMemoryStore(assistant.Seed()), assistant.DefaultID)
	r := NewWebRouter(web.New(profile, nil, page.Options{}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Header().Get("Content-Type"), "text/html")

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
}
