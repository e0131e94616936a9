package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wellnest/companion/internal/domain"
)

// Log is the ordered, append-only conversation log of a session.
// Turns are copied in and out; callers never hold a reference into the log.
type Log struct {
	mu    sync.RWMutex
	turns []domain.Turn
	now   func() time.Time
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append adds turn to the end of the log and returns the stored copy.
// An empty ID or zero CreatedAt is filled in.
func (l *Log) Append(turn domain.Turn) domain.Turn {
	turn = turn.Clone()
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = l.now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn)
	return turn.Clone()
}

// Clear empties the log.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}

// Snapshot returns a copy of every turn in insertion order.
func (l *Log) Snapshot() []domain.Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneTurns(l.turns)
}

// Last returns a copy of the most recent n turns.
func (l *Log) Last(n int) []domain.Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 {
		return []domain.Turn{}
	}
	if n >= len(l.turns) {
		return cloneTurns(l.turns)
	}
	return cloneTurns(l.turns[len(l.turns)-n:])
}

// Len returns the number of turns.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

func cloneTurns(turns []domain.Turn) []domain.Turn {
	out := make([]domain.Turn, len(turns))
	for i, t := range turns {
		out[i] = t.Clone()
	}
	return out
}
