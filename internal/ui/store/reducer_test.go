package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func userMsg(content string) Message {
	return Message{Sender: SenderUser, Content: content, Timestamp: t0}
}

func botMsg(content string) Message {
	return Message{Sender: SenderAssistant, Content: content, Timestamp: t0.Add(time.Second)}
}

func apply(t *testing.T, s State, actions ...Action) State {
	t.Helper()
	for _, a := range actions {
		s = Reduce(s, a).State
	}
	return s
}

func TestSessionAdoptedResetsList(t *testing.T) {
	s := apply(t, State{},
		SessionAdopted{SessionID: "A"},
		MessageSent{RequestID: "r1", Message: userMsg("Hello")},
		ReplyReceived{RequestID: "r1", SessionID: "A", Message: botMsg("Hi")},
	)
	require.Len(t, s.Messages, 2)

	res := Reduce(s, SessionAdopted{SessionID: "B"})
	require.True(t, res.Changed)
	require.True(t, res.MessagesChanged)
	require.Equal(t, "B", res.State.SessionID)
	require.Empty(t, res.State.Messages)

	// the sidebar still knows A but has no entry for the empty B
	sum, ok := res.State.Summary("A")
	require.True(t, ok)
	require.Len(t, sum.Messages, 2)
	_, ok = res.State.Summary("B")
	require.False(t, ok)
}

func TestSessionAdoptedWithRestoredMessages(t *testing.T) {
	restored := []Message{userMsg("old")}
	s := Reduce(State{}, SessionAdopted{SessionID: "A", Messages: restored}).State
	require.Equal(t, restored, s.Messages)

	restored[0].Content = "mutated"
	require.Equal(t, "old", s.Messages[0].Content)
}

func TestSessionAdoptedIgnoresBlankID(t *testing.T) {
	res := Reduce(State{SessionID: "A"}, SessionAdopted{})
	require.False(t, res.Changed)
	require.Equal(t, "A", res.State.SessionID)
}

func TestMessageSentSetsComposingAndClearsInput(t *testing.T) {
	s := apply(t, State{}, SessionAdopted{SessionID: "A"}, InputChanged{Text: "Hello"})
	require.Equal(t, "Hello", s.Input)

	res := Reduce(s, MessageSent{RequestID: "r1", Message: userMsg("Hello")})
	require.True(t, res.MessagesChanged)
	require.True(t, res.State.Composing)
	require.Empty(t, res.State.Input)
	require.Equal(t, &Pending{RequestID: "r1", SessionID: "A"}, res.State.Pending)
	require.Equal(t, []Message{userMsg("Hello")}, res.State.Messages)

	sum, ok := res.State.Summary("A")
	require.True(t, ok)
	require.Len(t, sum.Messages, 1)
}

func TestMessageSentIgnoredWithoutSessionOrWhilePending(t *testing.T) {
	require.False(t, Reduce(State{}, MessageSent{RequestID: "r1", Message: userMsg("x")}).Changed)

	s := apply(t, State{}, SessionAdopted{SessionID: "A"}, MessageSent{RequestID: "r1", Message: userMsg("x")})
	require.False(t, Reduce(s, MessageSent{RequestID: "r2", Message: userMsg("y")}).Changed)
}

func TestReplyReceivedAppendsAndClearsComposing(t *testing.T) {
	s := apply(t, State{}, SessionAdopted{SessionID: "A"}, MessageSent{RequestID: "r1", Message: userMsg("Hello")})

	res := Reduce(s, ReplyReceived{RequestID: "r1", SessionID: "A", Message: botMsg("Hi there")})
	require.True(t, res.MessagesChanged)
	require.False(t, res.State.Composing)
	require.Nil(t, res.State.Pending)
	require.Len(t, res.State.Messages, 2)
	require.Equal(t, "Hi there", res.State.Messages[1].Content)

	sum, _ := res.State.Summary("A")
	require.Len(t, sum.Messages, 2)
}

func TestReplyFailedAppendsErrorMessage(t *testing.T) {
	s := apply(t, State{}, SessionAdopted{SessionID: "A"}, MessageSent{RequestID: "r1", Message: userMsg("Hello")})

	res := Reduce(s, ReplyFailed{RequestID: "r1", SessionID: "A", Message: botMsg("oops"), Err: errors.New("dial")})
	require.True(t, res.Changed)
	require.False(t, res.State.Composing)
	require.Equal(t, "oops", res.State.Messages[1].Content)
}

func TestStaleRepliesAreDiscarded(t *testing.T) {
	s := apply(t, State{},
		SessionAdopted{SessionID: "A"},
		MessageSent{RequestID: "r1", Message: userMsg("Hello")},
		SessionAdopted{SessionID: "B"},
	)
	require.False(t, s.Composing)

	res := Reduce(s, ReplyReceived{RequestID: "r1", SessionID: "A", Message: botMsg("late")})
	require.False(t, res.Changed)
	require.Empty(t, res.State.Messages)

	// returning to A does not resurrect the request either
	s = apply(t, s, SessionAdopted{SessionID: "A"})
	require.False(t, Reduce(s, ReplyFailed{RequestID: "r1", SessionID: "A", Message: botMsg("late")}).Changed)
}

func TestMismatchedRequestIDIsDiscarded(t *testing.T) {
	s := apply(t, State{}, SessionAdopted{SessionID: "A"}, MessageSent{RequestID: "r1", Message: userMsg("Hello")})
	require.False(t, Reduce(s, ReplyReceived{RequestID: "other", SessionID: "A", Message: botMsg("x")}).Changed)
}

func TestUpsertKeepsFirstSeenOrder(t *testing.T) {
	s := apply(t, State{},
		SessionAdopted{SessionID: "A"},
		MessageSent{RequestID: "r1", Message: userMsg("a")},
		ReplyReceived{RequestID: "r1", SessionID: "A", Message: botMsg("a!")},
		SessionAdopted{SessionID: "B"},
		MessageSent{RequestID: "r2", Message: userMsg("b")},
		ReplyReceived{RequestID: "r2", SessionID: "B", Message: botMsg("b!")},
		SessionAdopted{SessionID: "A"},
		MessageSent{RequestID: "r3", Message: userMsg("again")},
	)
	require.Len(t, s.History, 2)
	require.Equal(t, "A", s.History[0].ID)
	require.Equal(t, "B", s.History[1].ID)
	// A was cleared on adoption, so its summary now only holds the new list
	require.Len(t, s.History[0].Messages, 1)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := apply(t, State{}, SessionAdopted{SessionID: "A"}, MessageSent{RequestID: "r1", Message: userMsg("Hello")})
	before := s.Clone()

	_ = Reduce(s, ReplyReceived{RequestID: "r1", SessionID: "A", Message: botMsg("Hi")})
	require.Equal(t, before, s)
}

func TestSidebarToggled(t *testing.T) {
	s := apply(t, State{}, SidebarToggled{})
	require.True(t, s.SidebarCollapsed)
	s = apply(t, s, SidebarToggled{})
	require.False(t, s.SidebarCollapsed)
}

func TestInputChangedNoop(t *testing.T) {
	require.False(t, Reduce(State{Input: "x"}, InputChanged{Text: "x"}).Changed)
}
