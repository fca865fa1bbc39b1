// Package controller owns the chat state of one page and runs the exchange
// with the chat backend.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/genie/internal/integrations/chatapi"
	"github.com/zhouzirui/genie/internal/ui/store"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrNoSession    = errors.New("no active session")
	ErrComposing    = errors.New("a reply is still pending")
	ErrClosed       = errors.New("controller closed")
)

// TransportErrorText is appended when the backend cannot be reached.
const TransportErrorText = "⚠️ Error contacting server."

// StatusErrorText formats the message appended for a non-2xx reply.
func StatusErrorText(code int) string {
	return fmt.Sprintf("⚠️ Server responded with status %d.", code)
}

// Backend sends one prompt and returns the reply text.
type Backend interface {
	Send(ctx context.Context, prompt, chatID string) (string, error)
}

// Effect is a UI side effect requested alongside a state update.
type Effect string

const (
	EffectScrollToLatest Effect = "scroll-to-latest"
	EffectFocusInput     Effect = "focus-input"
)

// Update is delivered to subscribers after every state change.
type Update struct {
	Version uint64      `json:"version"`
	State   store.State `json:"state"`
	Effects []Effect    `json:"effects,omitempty"`
}

// Controller serialises actions on one page's state.
type Controller struct {
	mu      sync.Mutex
	pubMu   sync.Mutex
	state   store.State
	version uint64
	subs    map[int]func(Update)
	nextSub int
	closed  bool

	backend        Backend
	now            func() time.Time
	newRequestID   func() string
	restoreHistory bool
	logger         zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Controller)

// WithClock replaces time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithRequestIDs replaces uuid.NewString for request tags.
func WithRequestIDs(fn func() string) Option {
	return func(c *Controller) {
		c.newRequestID = fn
	}
}

// WithRestoreHistory makes Adopt start from the sidebar copy of a session
// instead of an empty list.
func WithRestoreHistory(restore bool) Option {
	return func(c *Controller) {
		c.restoreHistory = restore
	}
}

// WithLogger sets the logger used for exchange failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates a controller with no active session.
func New(backend Backend, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		subs:         make(map[int]func(Update)),
		backend:      backend,
		now:          func() time.Time { return time.Now().UTC() },
		newRequestID: uuid.NewString,
		logger:       log.Logger,
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "controller").Logger()
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() store.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Snapshot returns the current state tagged with its version.
func (c *Controller) Snapshot() Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Update{Version: c.version, State: c.state.Clone()}
}

// CurrentSessionID returns the active session id, empty when none.
func (c *Controller) CurrentSessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.SessionID
}

// Subscribe registers fn for updates and returns a function that removes it.
// Updates arrive in order. fn must not call back into the controller.
func (c *Controller) Subscribe(fn func(Update)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Adopt makes id the active session.
func (c *Controller) Adopt(id string) {
	c.mu.Lock()
	var restored []store.Message
	if c.restoreHistory {
		if sum, ok := c.state.Summary(id); ok {
			restored = sum.Messages
		}
	}
	c.mu.Unlock()

	c.dispatch(store.SessionAdopted{SessionID: id, Messages: restored})
}

// SetInput replaces the input buffer.
func (c *Controller) SetInput(text string) {
	c.dispatch(store.InputChanged{Text: text})
}

// ToggleSidebar collapses or expands the sidebar.
func (c *Controller) ToggleSidebar() {
	c.dispatch(store.SidebarToggled{})
}

// SendMessage appends text as a user message and asks the backend for a
// reply. The reply is applied asynchronously.
func (c *Controller) SendMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.state.SessionID == "":
		c.mu.Unlock()
		return ErrNoSession
	case c.state.Composing:
		c.mu.Unlock()
		return ErrComposing
	}

	requestID := c.newRequestID()
	sessionID := c.state.SessionID
	update, changed := c.applyLocked(store.MessageSent{
		RequestID: requestID,
		Message:   store.Message{Sender: store.SenderUser, Content: text, Timestamp: c.now()},
	})
	subs := c.subscribersLocked()
	c.wg.Add(1)
	c.pubMu.Lock()
	c.mu.Unlock()

	publish(subs, update, changed)
	c.pubMu.Unlock()

	go c.exchange(requestID, sessionID, text)
	return nil
}

func (c *Controller) exchange(requestID, sessionID, text string) {
	defer c.wg.Done()

	reply, err := c.backend.Send(c.ctx, text, sessionID)
	if err != nil {
		if errors.Is(c.ctx.Err(), context.Canceled) {
			return
		}
		c.logger.Warn().Err(err).Str("chat_id", sessionID).Str("request_id", requestID).Msg("chat request failed")
		c.dispatch(store.ReplyFailed{
			RequestID: requestID,
			SessionID: sessionID,
			Message:   store.Message{Sender: store.SenderAssistant, Content: errorText(err), Timestamp: c.now()},
			Err:       err,
		})
		return
	}

	c.dispatch(store.ReplyReceived{
		RequestID: requestID,
		SessionID: sessionID,
		Message:   store.Message{Sender: store.SenderAssistant, Content: reply, Timestamp: c.now()},
	})
}

func errorText(err error) string {
	var statusErr *chatapi.HTTPStatusError
	if errors.As(err, &statusErr) {
		return StatusErrorText(statusErr.StatusCode)
	}
	return TransportErrorText
}

// Wait blocks until every in-flight exchange has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight exchanges and waits for them. Later sends fail.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) dispatch(a store.Action) {
	c.mu.Lock()
	update, changed := c.applyLocked(a)
	subs := c.subscribersLocked()
	c.pubMu.Lock()
	c.mu.Unlock()

	publish(subs, update, changed)
	c.pubMu.Unlock()
}

func (c *Controller) applyLocked(a store.Action) (Update, bool) {
	res := store.Reduce(c.state, a)
	if !res.Changed {
		return Update{}, false
	}
	c.state = res.State
	c.version++

	update := Update{Version: c.version, State: c.state.Clone()}
	if res.MessagesChanged {
		update.Effects = []Effect{EffectScrollToLatest, EffectFocusInput}
	}
	return update, true
}

func (c *Controller) subscribersLocked() []func(Update) {
	subs := make([]func(Update), 0, len(c.subs))
	for i := 0; i < c.nextSub; i++ {
		if fn, ok := c.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

func publish(subs []func(Update), update Update, changed bool) {
	if !changed {
		return
	}
	for _, fn := range subs {
		fn(update)
	}
}
