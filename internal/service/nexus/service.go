package nexus

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/chat"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
)

var ErrSessionNotFound = errors.New("session not found")

// SnapshotStore persists the active session list as a single durable slot.
// LoadSnapshot is called once at startup; SaveSnapshot after every mutation.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) ([]chat.Session, error)
	SaveSnapshot(ctx context.Context, sessions []chat.Session) error
}

// EventKind labels a session mutation for feed subscribers.
type EventKind string

const (
	EventSessionOpened EventKind = "session_opened"
	EventSessionClosed EventKind = "session_closed"
	EventSessionSaved  EventKind = "session_saved"
	EventMessageRouted EventKind = "message_routed"
	EventMessageAdded  EventKind = "message_added"
)

// Event describes one mutation of the active session list.
type Event struct {
	Kind       EventKind     `json:"kind"`
	EntityID   string        `json:"entityId"`
	EntityName string        `json:"entityName,omitempty"`
	Message    *chat.Message `json:"message,omitempty"`
	At         time.Time     `json:"at"`
}

// Service is the exclusive owner of the active session list. It upholds the
// one-session-per-entity invariant: every mutation either fully replaces the
// list or leaves it unchanged.
type Service struct {
	mu        sync.RWMutex
	sessions  []chat.Session
	snapshots SnapshotStore

	subMu       sync.Mutex
	subscribers map[chan Event]struct{}
}

// NewService bootstraps the controller. A nil snapshot store disables
// persistence (sessions live for the process only).
func NewService(snapshots SnapshotStore) *Service {
	return &Service{
		sessions:    []chat.Session{},
		snapshots:   snapshots,
		subscribers: make(map[chan Event]struct{}),
	}
}

// Restore loads the persisted session list. A decode or read failure is
// logged and leaves the controller with an empty list.
func (s *Service) Restore(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	sessions, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		log.Printf("[nexus] snapshot restore failed, starting empty: %v", err)
		return
	}

	// A tampered or corrupted payload could carry duplicate entity ids;
	// keep the first occurrence so the list stays one-session-per-entity.
	seen := make(map[string]struct{}, len(sessions))
	deduped := make([]chat.Session, 0, len(sessions))
	for _, session := range sessions {
		if _, dup := seen[session.EntityID]; dup {
			log.Printf("[nexus] dropping duplicate snapshot session for entity %s", session.EntityID)
			continue
		}
		seen[session.EntityID] = struct{}{}
		deduped = append(deduped, session)
	}

	s.mu.Lock()
	s.sessions = deduped
	s.mu.Unlock()
	log.Printf("[nexus] restored %d session(s) from snapshot", len(deduped))
}

// Open creates a session for the entity if none exists. Opening an already
// open entity is a no-op; the existing session is returned either way.
func (s *Service) Open(ctx context.Context, ent entity.Entity) chat.Session {
	s.mu.Lock()
	if idx := s.indexOf(ent.ID); idx >= 0 {
		existing := s.sessions[idx].Clone()
		s.mu.Unlock()
		return existing
	}

	session := chat.NewSession(ent.ID, ent.Name)
	s.sessions = append(s.sessions, session)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(Event{Kind: EventSessionOpened, EntityID: ent.ID, EntityName: ent.Name, At: time.Now().UTC()})
	return session.Clone()
}

// Close removes the session for the entity. Closing a non-open entity is a
// no-op.
func (s *Service) Close(ctx context.Context, entityID string) {
	s.mu.Lock()
	idx := s.indexOf(entityID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	name := s.sessions[idx].EntityName
	s.sessions = append(s.sessions[:idx:idx], s.sessions[idx+1:]...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(Event{Kind: EventSessionClosed, EntityID: entityID, EntityName: name, At: time.Now().UTC()})
}

// Save replaces the stored session matching session.EntityID wholesale.
// Saving a session that was never opened is a silent no-op; callers are
// expected to open first.
func (s *Service) Save(ctx context.Context, session chat.Session) {
	s.mu.Lock()
	idx := s.indexOf(session.EntityID)
	if idx < 0 {
		s.mu.Unlock()
		log.Printf("[nexus] save ignored for unopened entity %s", session.EntityID)
		return
	}
	s.sessions[idx] = session.Clone()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(Event{Kind: EventSessionSaved, EntityID: session.EntityID, EntityName: session.EntityName, At: time.Now().UTC()})
}

// RouteCrossEntity delivers a message into the target entity's session,
// opening it when necessary. The target never ends up with more than one
// session.
func (s *Service) RouteCrossEntity(ctx context.Context, target entity.Entity, message chat.Message) chat.Session {
	message = s.stamp(message)

	s.mu.Lock()
	idx := s.indexOf(target.ID)
	var session chat.Session
	if idx >= 0 {
		session = s.sessions[idx].Clone()
		session.Messages = append(session.Messages, message)
		s.sessions[idx] = session
	} else {
		session = chat.NewSession(target.ID, target.Name)
		session.Messages = append(session.Messages, message)
		s.sessions = append(s.sessions, session)
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(Event{Kind: EventMessageRouted, EntityID: target.ID, EntityName: target.Name, Message: &message, At: time.Now().UTC()})
	return session.Clone()
}

// AppendMessage appends a message to an open session's log, preserving
// order. Returns the stamped message.
func (s *Service) AppendMessage(ctx context.Context, entityID string, message chat.Message) (chat.Message, error) {
	message = s.stamp(message)

	s.mu.Lock()
	idx := s.indexOf(entityID)
	if idx < 0 {
		s.mu.Unlock()
		return chat.Message{}, ErrSessionNotFound
	}
	session := s.sessions[idx].Clone()
	session.Messages = append(session.Messages, message)
	s.sessions[idx] = session
	name := session.EntityName
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(Event{Kind: EventMessageAdded, EntityID: entityID, EntityName: name, Message: &message, At: time.Now().UTC()})
	return message, nil
}

// Get returns a copy of the session for the entity.
func (s *Service) Get(_ context.Context, entityID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(entityID)
	if idx < 0 {
		return chat.Session{}, ErrSessionNotFound
	}
	return s.sessions[idx].Clone(), nil
}

// List returns a copy of the active session list in insertion order.
func (s *Service) List(_ context.Context) []chat.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]chat.Session, len(s.sessions))
	for i, session := range s.sessions {
		out[i] = session.Clone()
	}
	return out
}

// Subscribe registers an event feed. The returned cancel func must be
// called to release the channel.
func (s *Service) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Service) publish(event Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Slow subscriber; drop rather than block a mutation.
		}
	}
}

func (s *Service) stamp(message chat.Message) chat.Message {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	return message
}

// persistLocked snapshots the current list. Best effort: failures are
// logged and never surfaced to the caller. Must hold s.mu.
func (s *Service) persistLocked(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveSnapshot(ctx, s.sessions); err != nil {
		log.Printf("[nexus] snapshot write failed: %v", err)
	}
}

// indexOf must be called with s.mu held.
func (s *Service) indexOf(entityID string) int {
	for i, session := range s.sessions {
		if session.EntityID == entityID {
			return i
		}
	}
	return -1
}
