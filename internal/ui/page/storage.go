package page

import "sync"

// ChatIDKey is the storage key holding the active session id.
const ChatIDKey = "chatId"

// Storage is page-scoped key/value state mirrored to the browser's
// sessionStorage. Values are written but the page never reads them back.
type Storage struct {
	mu     sync.Mutex
	values map[string]string
	onSet  func(key, value string)
}

func newStorage(onSet func(key, value string)) *Storage {
	return &Storage{values: make(map[string]string), onSet: onSet}
}

// Set stores value under key.
func (s *Storage) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	s.onSet(key, value)
}

// Get returns the value under key.
func (s *Storage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}
