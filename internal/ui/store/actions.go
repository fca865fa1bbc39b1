package store

// Action is a typed state transition.
type Action interface {
	action()
}

// SessionAdopted makes SessionID the active session. Messages is the list to
// start from, nil for an empty list.
type SessionAdopted struct {
	SessionID string
	Messages  []Message
}

// InputChanged replaces the input buffer.
type InputChanged struct {
	Text string
}

// MessageSent appends the user's message and marks RequestID as pending.
type MessageSent struct {
	RequestID string
	Message   Message
}

// ReplyReceived appends the assistant reply of a pending request.
type ReplyReceived struct {
	RequestID string
	SessionID string
	Message   Message
}

// ReplyFailed appends the error message of a pending request.
type ReplyFailed struct {
	RequestID string
	SessionID string
	Message   Message
	Err       error
}

// SidebarToggled flips the collapsed state of the sidebar.
type SidebarToggled struct{}

func (SessionAdopted) action() {}
func (InputChanged) action()   {}
func (MessageSent) action()    {}
func (ReplyReceived) action()  {}
func (ReplyFailed) action()    {}
func (SidebarToggled) action() {}
