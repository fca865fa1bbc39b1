package store

// Result describes the outcome of Reduce.
type Result struct {
	State State
	// Changed is false when the action was ignored.
	Changed bool
	// MessagesChanged reports that the active message list was replaced or grew.
	MessagesChanged bool
}

// Reduce applies a to s and returns the new state. s is never modified.
func Reduce(s State, a Action) Result {
	next := s.Clone()

	switch act := a.(type) {
	case SessionAdopted:
		if act.SessionID == "" {
			return Result{State: s}
		}
		next.SessionID = act.SessionID
		next.Messages = cloneMessages(act.Messages)
		next.Composing = false
		next.Pending = nil
		return settle(next, true)

	case InputChanged:
		if next.Input == act.Text {
			return Result{State: s}
		}
		next.Input = act.Text
		return Result{State: next, Changed: true}

	case MessageSent:
		if next.SessionID == "" || next.Pending != nil {
			return Result{State: s}
		}
		next.Messages = append(next.Messages, act.Message)
		next.Input = ""
		next.Composing = true
		next.Pending = &Pending{RequestID: act.RequestID, SessionID: next.SessionID}
		return settle(next, true)

	case ReplyReceived:
		if !matchesPending(next, act.RequestID, act.SessionID) {
			return Result{State: s}
		}
		return settle(finishReply(next, act.Message), true)

	case ReplyFailed:
		if !matchesPending(next, act.RequestID, act.SessionID) {
			return Result{State: s}
		}
		return settle(finishReply(next, act.Message), true)

	case SidebarToggled:
		next.SidebarCollapsed = !next.SidebarCollapsed
		return Result{State: next, Changed: true}
	}

	return Result{State: s}
}

// matchesPending drops replies for requests that are no longer awaited, which
// includes every request issued before the active session changed.
func matchesPending(s State, requestID, sessionID string) bool {
	return s.Pending != nil &&
		s.Pending.RequestID == requestID &&
		s.Pending.SessionID == sessionID &&
		s.SessionID == sessionID
}

func finishReply(s State, msg Message) State {
	s.Messages = append(s.Messages, msg)
	s.Composing = false
	s.Pending = nil
	return s
}

func settle(s State, messagesChanged bool) Result {
	if messagesChanged {
		s.History = upsertSummary(s.History, s.SessionID, s.Messages)
	}
	return Result{State: s, Changed: true, MessagesChanged: messagesChanged}
}

// upsertSummary records the active list in the sidebar history. Empty lists
// are not recorded so a fresh session only shows up once it has a message.
func upsertSummary(history []Summary, id string, messages []Message) []Summary {
	if id == "" || len(messages) == 0 {
		return history
	}
	for i := range history {
		if history[i].ID == id {
			history[i].Messages = cloneMessages(messages)
			return history
		}
	}
	return append(history, Summary{ID: id, Messages: cloneMessages(messages)})
}
