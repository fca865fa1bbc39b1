// Package router maps page paths to the active chat session.
package router

import (
	"github.com/google/uuid"
)

// Mode tells the browser how to record a navigation.
type Mode int

const (
	// Push adds a history entry.
	Push Mode = iota
	// Replace overwrites the current entry.
	Replace
)

func (m Mode) String() string {
	if m == Replace {
		return "replace"
	}
	return "push"
}

// Adopter owns the active session.
type Adopter interface {
	CurrentSessionID() string
	Adopt(id string)
}

// NavigateFunc is told about every navigation the router initiates.
type NavigateFunc func(path string, mode Mode)

// Router resolves history entries to sessions.
type Router struct {
	history    *History
	adopter    Adopter
	newID      func() string
	onNavigate NavigateFunc
}

type Option func(*Router)

// WithIDGenerator replaces uuid.NewString as the session id source.
func WithIDGenerator(fn func() string) Option {
	return func(r *Router) {
		r.newID = fn
	}
}

// WithNavigate registers fn for navigations initiated by the router.
func WithNavigate(fn NavigateFunc) Option {
	return func(r *Router) {
		r.onNavigate = fn
	}
}

// New creates a router over history.
func New(history *History, adopter Adopter, opts ...Option) *Router {
	r := &Router{
		history:    history,
		adopter:    adopter,
		newID:      uuid.NewString,
		onNavigate: func(string, Mode) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// History returns the navigation stack.
func (r *Router) History() *History {
	return r.history
}

// Resolve adopts the session named by the current entry. A path without a
// session id gets a fresh one and the entry is replaced, so no back entry
// points at the bare path.
func (r *Router) Resolve() error {
	route, err := Parse(r.history.Current())
	if err != nil {
		return err
	}

	if route.ChatID == "" {
		id := r.newID()
		r.adopter.Adopt(id)
		r.navigate(ChatPath(id), Replace)
		return nil
	}

	if route.ChatID != r.adopter.CurrentSessionID() {
		r.adopter.Adopt(route.ChatID)
	}
	return nil
}

// Select navigates to session id.
func (r *Router) Select(id string) error {
	r.navigate(ChatPath(id), Push)
	return r.Resolve()
}

// NewChat navigates to a freshly generated session.
func (r *Router) NewChat() (string, error) {
	id := r.newID()
	return id, r.Select(id)
}

// PopState follows a browser back/forward move to path.
func (r *Router) PopState(path string) error {
	if !r.history.Seek(path) {
		r.history.Replace(path)
	}
	return r.Resolve()
}

func (r *Router) navigate(path string, mode Mode) {
	if mode == Replace {
		r.history.Replace(path)
	} else {
		r.history.Push(path)
	}
	r.onNavigate(path, mode)
}
