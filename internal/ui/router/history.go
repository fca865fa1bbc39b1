package router

// History is the navigation stack of one page load.
type History struct {
	entries []string
	index   int
}

// NewHistory starts a history whose only entry is initial.
func NewHistory(initial string) *History {
	return &History{entries: []string{initial}}
}

// Current returns the active entry.
func (h *History) Current() string {
	return h.entries[h.index]
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the stack.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Push adds path after the current entry, dropping any forward entries.
func (h *History) Push(path string) {
	h.entries = append(h.entries[:h.index+1], path)
	h.index++
}

// Replace overwrites the current entry.
func (h *History) Replace(path string) {
	h.entries[h.index] = path
}

// Back moves one entry back.
func (h *History) Back() (string, bool) {
	if h.index == 0 {
		return h.Current(), false
	}
	h.index--
	return h.Current(), true
}

// Forward moves one entry forward.
func (h *History) Forward() (string, bool) {
	if h.index == len(h.entries)-1 {
		return h.Current(), false
	}
	h.index++
	return h.Current(), true
}

// Seek moves to the entry nearest to the current one that equals path. It
// reports false and leaves the position unchanged when no entry matches.
func (h *History) Seek(path string) bool {
	for d := 0; d < len(h.entries); d++ {
		if i := h.index - d; i >= 0 && h.entries[i] == path {
			h.index = i
			return true
		}
		if i := h.index + d; i < len(h.entries) && h.entries[i] == path {
			h.index = i
			return true
		}
	}
	return false
}
