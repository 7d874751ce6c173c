package chat

// Session is the conversation state for one (user, entity) pair. Sessions
// are value objects: mutations replace the whole session in the active list
// rather than editing it in place.
type Session struct {
	EntityID   string         `json:"entityId"`
	EntityName string         `json:"entityName"`
	Messages   []Message      `json:"messages"`
	State      map[string]any `json:"state"`
}

// NewSession returns an empty session for the given entity.
func NewSession(entityID, entityName string) Session {
	return Session{
		EntityID:   entityID,
		EntityName: entityName,
		Messages:   []Message{},
		State:      map[string]any{},
	}
}

// Clone deep-copies the session so callers cannot alias the stored log.
func (s Session) Clone() Session {
	out := s
	out.Messages = append([]Message(nil), s.Messages...)
	out.State = make(map[string]any, len(s.State))
	for k, v := range s.State {
		out.State[k] = v
	}
	return out
}
