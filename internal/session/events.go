package session

import (
	"time"

	"github.com/wellnest/companion/internal/domain"
)

// EventType names a state change observable on a Session.
type EventType string

const (
	EventTurnAppended   EventType = "turn_appended"
	EventLogCleared     EventType = "log_cleared"
	EventModeChanged    EventType = "mode_changed"
	EventPendingChanged EventType = "pending_changed"
	// EventInputCleared tells the UI a message was accepted and its input
	// buffer should be emptied.
	EventInputCleared EventType = "input_cleared"
)

// Event is a committed state change.
type Event struct {
	Type          EventType       `json:"type"`
	Turn          *domain.Turn    `json:"turn,omitempty"`
	Mode          domain.AuthMode `json:"mode"`
	AwaitingReply bool            `json:"awaiting_reply"`
	At            time.Time       `json:"at"`
}

const defaultSubscriberBuffer = 64
