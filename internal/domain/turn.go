// Package domain contains core domain types for the companion client.
package domain

import (
	"strings"
	"time"
)

// Role attributes a turn to its author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Resource is a crisis-support contact surfaced on escalation.
type Resource struct {
	Name    string `json:"name" yaml:"name"`
	Contact string `json:"contact" yaml:"contact"`
}

// Turn is one entry of the conversation log. It is never mutated after append.
type Turn struct {
	ID        string     `json:"id" yaml:"id"`
	Role      Role       `json:"role" yaml:"role"`
	Content   string     `json:"content" yaml:"content"`
	Resources []Resource `json:"resources,omitempty" yaml:"resources,omitempty"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
}

// Clone returns a copy that shares no slices with t.
func (t Turn) Clone() Turn {
	if t.Resources != nil {
		t.Resources = append([]Resource(nil), t.Resources...)
	}
	return t
}

// ResourceTurnContent renders resources the way the escalation system turn shows them.
func ResourceTurnContent(resources []Resource) string {
	lines := make([]string, 0, len(resources))
	for _, r := range resources {
		lines = append(lines, r.Name+": "+r.Contact)
	}
	return "Resources:\n" + strings.Join(lines, "\n")
}
