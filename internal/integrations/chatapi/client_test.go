package chatapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	c, err := NewClient("")
	require.NoError(t, err)
	require.Equal(t, DefaultURL, c.URL())

	c, err = NewClient("http://example.com/api/chat/")
	require.NoError(t, err)
	require.Equal(t, "http://example.com/api/chat", c.URL())

	_, err = NewClient("ftp://example.com")
	require.Error(t, err)
}

func TestSendPostsPromptAndChatID(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("Hi there"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	reply, err := c.Send(context.Background(), "Hello", "chat-1")
	require.NoError(t, err)
	require.Equal(t, "Hi there", reply)
	require.Equal(t, chatRequest{Prompt: "Hello", ChatID: "chat-1"}, got)
}

func TestSendStatusPolicies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Hi there"))
	}))
	defer srv.Close()

	strict, err := NewClient(srv.URL)
	require.NoError(t, err)
	_, err = strict.Send(context.Background(), "Hello", "c1")
	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusInternalServerError, statusErr.HTTPStatusCode())
	require.Equal(t, "Hi there", statusErr.Body)

	lenient, err := NewClient(srv.URL, WithStrictStatus(false))
	require.NoError(t, err)
	reply, err := lenient.Send(context.Background(), "Hello", "c1")
	require.NoError(t, err)
	require.Equal(t, "Hi there", reply)
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, WithTimeout(time.Second))
	require.NoError(t, err)
	_, err = c.Send(context.Background(), "Hello", "c1")
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.False(t, errors.As(err, &statusErr))
}

func TestSendRejectsEmptyPrompt(t *testing.T) {
	c, err := NewClient("")
	require.NoError(t, err)
	_, err = c.Send(context.Background(), "  ", "c1")
	require.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat/c1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"m1","chatId":"c1","sender":"user","content":"hi","timestamp":"2024-01-01T00:00:00Z"}]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/api/chat", WithStrictStatus(false))
	require.NoError(t, err)

	messages, err := c.History(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "hi", messages[0].Content)
}
