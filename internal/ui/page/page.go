// Package page ties the navigation history, the session router and the chat
// controller of one browser page load together.
package page

import (
	"sync"

	"github.com/google/uuid"

	"github.com/zhouzirui/genie/internal/ui/controller"
	"github.com/zhouzirui/genie/internal/ui/router"
)

// EventType names the events a page emits to the browser.
type EventType string

const (
	EventState    EventType = "state"
	EventNavigate EventType = "navigate"
	EventStorage  EventType = "storage"
	EventError    EventType = "error"
)

// Navigation is the payload of EventNavigate.
type Navigation struct {
	Path    string `json:"path"`
	Replace bool   `json:"replace"`
}

// StorageWrite is the payload of EventStorage.
type StorageWrite struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is one message for the browser. Data is a controller.Update,
// Navigation, StorageWrite or error string depending on Type.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// Options configure a page.
type Options struct {
	RestoreHistory bool
	NewID          func() string
	Controller     []controller.Option
}

// Page is the server-side half of one page load.
type Page struct {
	ID string

	// mu serialises browser commands so router and controller see them in order.
	mu      sync.Mutex
	emit    func(Event)
	ctrl    *controller.Controller
	router  *router.Router
	storage *Storage
	unsub   func()
}

// New creates a page for the browser path it was loaded at. Events are
// passed to emit, which must not call back into the page.
func New(path string, backend controller.Backend, opts Options, emit func(Event)) *Page {
	p := &Page{ID: uuid.NewString(), emit: emit}

	ctrlOpts := append([]controller.Option{controller.WithRestoreHistory(opts.RestoreHistory)}, opts.Controller...)
	p.ctrl = controller.New(backend, ctrlOpts...)
	p.storage = newStorage(func(key, value string) {
		p.emit(Event{Type: EventStorage, Data: StorageWrite{Key: key, Value: value}})
	})

	routerOpts := []router.Option{
		router.WithNavigate(func(path string, mode router.Mode) {
			p.emit(Event{Type: EventNavigate, Data: Navigation{Path: path, Replace: mode == router.Replace}})
		}),
	}
	if opts.NewID != nil {
		routerOpts = append(routerOpts, router.WithIDGenerator(opts.NewID))
	}
	p.router = router.New(router.NewHistory(path), (*adopter)(p), routerOpts...)

	p.unsub = p.ctrl.Subscribe(func(u controller.Update) {
		p.emit(Event{Type: EventState, Data: u})
	})
	return p
}

// adopter records the session id in page storage before handing it to the
// controller.
type adopter Page

func (a *adopter) CurrentSessionID() string {
	return a.ctrl.CurrentSessionID()
}

func (a *adopter) Adopt(id string) {
	a.storage.Set(ChatIDKey, id)
	a.ctrl.Adopt(id)
}

// Open resolves the path the page was loaded at and emits the first state.
func (p *Page) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.router.Resolve(); err != nil {
		return err
	}
	p.emit(Event{Type: EventState, Data: p.ctrl.Snapshot()})
	return nil
}

// Select navigates to a session listed in the sidebar.
func (p *Page) Select(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.router.Select(id)
}

// NewChat navigates to a fresh session.
func (p *Page) NewChat() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.router.NewChat()
	return err
}

// PopState follows a browser back/forward move.
func (p *Page) PopState(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.router.PopState(path)
}

// Input updates the input buffer.
func (p *Page) Input(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctrl.SetInput(text)
}

// Send sends text, or the current input buffer when text is empty.
func (p *Page) Send(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if text == "" {
		text = p.ctrl.State().Input
	}
	return p.ctrl.SendMessage(text)
}

// ToggleSidebar collapses or expands the sidebar.
func (p *Page) ToggleSidebar() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctrl.ToggleSidebar()
}

// Path returns the current history entry.
func (p *Page) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.router.History().Current()
}

// HistoryLen returns the number of navigation entries.
func (p *Page) HistoryLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.router.History().Len()
}

// Storage returns the page-scoped storage.
func (p *Page) Storage() *Storage {
	return p.storage
}

// Controller exposes the page's controller.
func (p *Page) Controller() *controller.Controller {
	return p.ctrl
}

// Close stops delivering events and cancels in-flight requests.
func (p *Page) Close() {
	p.unsub()
	p.ctrl.Close()
}
