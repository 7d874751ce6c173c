package chat

import "time"

// Role tags who originated a message.
type Role string

const (
	RoleUser        Role = "user"
	RoleEntity      Role = "entity"
	RoleSystem      Role = "system"
	RoleCrossEntity Role = "cross-entity"
)

// Message is one turn inside a session log. Messages are append-only; the
// append sequence is the authoritative order and timestamps are advisory.
type Message struct {
	ID           string    `json:"id,omitempty"`
	Role         Role      `json:"role"`
	Content      string    `json:"content"`
	Timestamp    time.Time `json:"timestamp"`
	SourceEntity string    `json:"sourceEntity,omitempty"`
}
