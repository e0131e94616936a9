package session

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wellnest/companion/internal/domain"
)

func TestLogAppendAssignsIdentity(t *testing.T) {
	l := NewLog()
	stored := l.Append(domain.Turn{Role: domain.RoleUser, Content: "hello"})
	require.NotEmpty(t, stored.ID)
	require.False(t, stored.CreatedAt.IsZero())

	kept := l.Append(domain.Turn{ID: "fixed", Role: domain.RoleAssistant, Content: "hi"})
	require.Equal(t, "fixed", kept.ID)
	require.Equal(t, 2, l.Len())
}

func TestLogSnapshotIsDetached(t *testing.T) {
	l := NewLog()
	l.Append(domain.Turn{Role: domain.RoleSystem, Content: "Resources:\nA: 1", Resources: []domain.Resource{{Name: "A", Contact: "1"}}})

	snap := l.Snapshot()
	snap[0].Content = "changed"
	snap[0].Resources[0].Contact = "2"

	again := l.Snapshot()
	require.Equal(t, "Resources:\nA: 1", again[0].Content)
	require.Equal(t, "1", again[0].Resources[0].Contact)
}

func TestLogLast(t *testing.T) {
	l := NewLog()
	for _, c := range []string{"a", "b", "c"} {
		l.Append(domain.Turn{Role: domain.RoleUser, Content: c})
	}

	last := l.Last(2)
	require.Len(t, last, 2)
	require.Equal(t, "b", last[0].Content)
	require.Equal(t, "c", last[1].Content)
	require.Len(t, l.Last(10), 3)
	require.Empty(t, l.Last(0))

	l.Clear()
	require.Zero(t, l.Len())
	require.Empty(t, l.Snapshot())
}
