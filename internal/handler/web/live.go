package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/genie/internal/ui/controller"
	"github.com/zhouzirui/genie/internal/ui/page"
	"github.com/zhouzirui/genie/internal/ui/router"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	outboxSize   = 64
)

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type textData struct {
	Text string `json:"text"`
}

type selectData struct {
	ID string `json:"id"`
}

type pathData struct {
	Path string `json:"path"`
}

type outgoingMessage struct {
	Type      page.EventType `json:"type"`
	Data      any            `json:"data,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// liveConn is one browser page load. Writes go through a single goroutine.
type liveConn struct {
	conn   *websocket.Conn
	out    chan outgoingMessage
	done   chan struct{}
	once   sync.Once
	logger zerolog.Logger
}

func (c *liveConn) stop() {
	c.once.Do(func() { close(c.done) })
}

func (c *liveConn) emit(e page.Event) {
	msg := outgoingMessage{Type: e.Type, Data: e.Data, Timestamp: time.Now().UnixMilli()}
	select {
	case c.out <- msg:
	case <-c.done:
	}
}

func (c *liveConn) sendError(message string) {
	c.emit(page.Event{Type: page.EventError, Data: message})
}

func (c *liveConn) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout))
			return
		case msg := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug().Err(err).Msg("write failed")
				c.stop()
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.stop()
				_ = c.conn.Close()
				return
			}
		}
	}
}

// handleLive 为一次页面加载建立 live 通道
func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = router.RootPattern
	}
	if _, err := router.Parse(path); err != nil {
		http.Error(w, "unknown page path", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("component", "live").Msg("upgrade failed")
		return
	}
	defer conn.Close()

	lc := &liveConn{
		conn: conn,
		out:  make(chan outgoingMessage, outboxSize),
		done: make(chan struct{}),
	}
	p := page.New(path, h.backend, h.opts, lc.emit)
	lc.logger = log.With().Str("component", "live").Str("page_id", p.ID).Logger()
	lc.logger.Info().Str("path", path).Msg("page opened")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		lc.writeLoop()
	}()
	defer func() {
		p.Close()
		lc.stop()
		<-writerDone
		lc.logger.Info().Msg("page closed")
	}()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	if err := p.Open(); err != nil {
		lc.sendError(err.Error())
		return
	}

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				lc.logger.Warn().Err(err).Msg("read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		if err := handleMessage(p, &msg); err != nil {
			lc.sendError(errorText(err))
		}
	}
}

var errBadPayload = errors.New("invalid payload")

func handleMessage(p *page.Page, msg *inboundMessage) error {
	switch msg.Type {
	case "input":
		var data textData
		if err := decode(msg.Data, &data); err != nil {
			return err
		}
		p.Input(data.Text)
	case "send":
		var data textData
		if err := decode(msg.Data, &data); err != nil {
			return err
		}
		return p.Send(data.Text)
	case "select":
		var data selectData
		if err := decode(msg.Data, &data); err != nil {
			return err
		}
		if data.ID == "" {
			return errBadPayload
		}
		return p.Select(data.ID)
	case "newChat":
		return p.NewChat()
	case "back", "forward", "popstate":
		var data pathData
		if err := decode(msg.Data, &data); err != nil {
			return err
		}
		return p.PopState(data.Path)
	case "toggleSidebar":
		p.ToggleSidebar()
	default:
		return errors.New("unsupported message type: " + msg.Type)
	}
	return nil
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errBadPayload
	}
	return nil
}

// errorText turns send rejections into short prompts for the browser.
func errorText(err error) string {
	switch {
	case errors.Is(err, controller.ErrEmptyMessage):
		return "message is empty"
	case errors.Is(err, controller.ErrComposing):
		return "please wait for the current reply"
	default:
		return err.Error()
	}
}
