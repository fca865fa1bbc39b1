package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/genie/internal/model/assistant"
	"github.com/zhouzirui/genie/internal/ui/controller"
	"github.com/zhouzirui/genie/internal/ui/page"
)

type echoBackend struct{}

func (echoBackend) Send(_ context.Context, prompt, _ string) (string, error) {
	return "echo: " + prompt, nil
}

type received struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	profiles := assistant.NewMemoryStore(assistant.Seed())
	profile, _ := assistant.Resolve(profiles, assistant.DefaultID)

	h := New(profile, echoBackend{}, page.Options{
		Controller: []controller.Option{controller.WithLogger(zerolog.Nop())},
	})
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live?path=" + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads events until match returns true or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(received) bool) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg received
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func stateOf(t *testing.T, msg received) controller.Update {
	t.Helper()
	var u controller.Update
	require.NoError(t, json.Unmarshal(msg.Data, &u))
	return u
}

func TestPageRendersProfile(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/chat/abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Tax Genie")
	require.Contains(t, string(body), "Genie is typing...")
	require.Contains(t, string(body), "+ New Chat")
	require.Contains(t, string(body), "Usage of this tool is monitored.")
}

func TestStaticAssets(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/static/app.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownPaths(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/settings")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live?path=/settings"
	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLiveRootReplacesWithGeneratedChat(t *testing.T) {
	srv := setupServer(t)
	conn := dial(t, srv, "/")

	nav := readUntil(t, conn, func(m received) bool { return m.Type == "navigate" })
	var data page.Navigation
	require.NoError(t, json.Unmarshal(nav.Data, &data))
	require.True(t, data.Replace)
	require.True(t, strings.HasPrefix(data.Path, "/chat/"))

	state := readUntil(t, conn, func(m received) bool { return m.Type == "state" })
	u := stateOf(t, state)
	require.Equal(t, strings.TrimPrefix(data.Path, "/chat/"), u.State.SessionID)
	require.Empty(t, u.State.Messages)
}

func TestLiveSendAndReply(t *testing.T) {
	srv := setupServer(t)
	conn := dial(t, srv, "/chat/abc")

	storage := readUntil(t, conn, func(m received) bool { return m.Type == "storage" })
	var write page.StorageWrite
	require.NoError(t, json.Unmarshal(storage.Data, &write))
	require.Equal(t, page.StorageWrite{Key: page.ChatIDKey, Value: "abc"}, write)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "send", "data": map[string]string{"text": "Hello"}}))

	msg := readUntil(t, conn, func(m received) bool {
		if m.Type != "state" {
			return false
		}
		u := stateOf(t, m)
		return len(u.State.Messages) == 2 && !u.State.Composing
	})
	u := stateOf(t, msg)
	require.Equal(t, "Hello", u.State.Messages[0].Content)
	require.Equal(t, "echo: Hello", u.State.Messages[1].Content)
	require.Contains(t, u.Effects, controller.EffectScrollToLatest)
	require.Len(t, u.State.History, 1)
}

func TestLiveSelectPushes(t *testing.T) {
	srv := setupServer(t)
	conn := dial(t, srv, "/chat/abc")
	readUntil(t, conn, func(m received) bool { return m.Type == "state" })

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "select", "data": map[string]string{"id": "def"}}))

	nav := readUntil(t, conn, func(m received) bool { return m.Type == "navigate" })
	var data page.Navigation
	require.NoError(t, json.Unmarshal(nav.Data, &data))
	require.Equal(t, page.Navigation{Path: "/chat/def", Replace: false}, data)

	state := readUntil(t, conn, func(m received) bool {
		return m.Type == "state" && stateOf(t, m).State.SessionID == "def"
	})
	require.Empty(t, stateOf(t, state).State.Messages)
}

func TestLiveRejectsUnknownType(t *testing.T) {
	srv := setupServer(t)
	conn := dial(t, srv, "/chat/abc")
	readUntil(t, conn, func(m received) bool { return m.Type == "state" })

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "dance"}))

	msg := readUntil(t, conn, func(m received) bool { return m.Type == "error" })
	var text string
	require.NoError(t, json.Unmarshal(msg.Data, &text))
	require.Contains(t, text, "unsupported message type")
}
