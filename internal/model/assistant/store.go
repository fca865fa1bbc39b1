package assistant

// Store exposes profile lookup for the api and web processes.
type Store interface {
	List() []Profile
	FindByID(id string) (Profile, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Profile
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied profiles.
func NewMemoryStore(items []Profile) *MemoryStore {
	return &MemoryStore{items: append([]Profile(nil), items...)}
}

// List returns every known profile.
func (s *MemoryStore) List() []Profile {
	return append([]Profile(nil), s.items...)
}

// FindByID looks up a profile by identifier.
func (s *MemoryStore) FindByID(id string) (Profile, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Profile{}, false
}

// Resolve returns the profile for id, falling back to the first profile in the store.
func Resolve(s Store, id string) (Profile, bool) {
	if p, ok := s.FindByID(id); ok {
		return p, true
	}
	items := s.List()
	if len(items) == 0 {
		return Profile{}, false
	}
	return items[0], false
}
