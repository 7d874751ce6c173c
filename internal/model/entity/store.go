package entity

// Store exposes entity lookup for handlers and services.
type Store interface {
	List() []Entity
	FindByID(id string) (Entity, bool)
}

// MemoryStore implements Store with an in-memory slice. The registry is
// read-only for the process lifetime, so no locking is needed.
type MemoryStore struct {
	items []Entity
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied entities.
func NewMemoryStore(items []Entity) *MemoryStore {
	return &MemoryStore{items: append([]Entity(nil), items...)}
}

// List returns the configured entity roster.
func (s *MemoryStore) List() []Entity {
	return append([]Entity(nil), s.items...)
}

// FindByID looks up an entity by identifier.
func (s *MemoryStore) FindByID(id string) (Entity, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Entity{}, false
}
