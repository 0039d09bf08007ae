package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	v1 "github.com/evgeniy-krivenko/notes-collab/pkg/api/notes/v1"
)

func drain(p *Peer) []v1.Envelope {
	var out []v1.Envelope
	for {
		select {
		case env, ok := <-p.Outbox():
			if !ok {
				return out
			}
			out = append(out, env)
		default:
			return out
		}
	}
}

func TestHub_JoinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()
	a, b := NewPeer("a"), NewPeer("b")
	hub.Register(a)
	hub.Register(b)

	assert.True(t, hub.Join(NoteRoom("n1"), a))
	assert.False(t, hub.Join(NoteRoom("n1"), a))
	assert.True(t, hub.Join(NoteRoom("n1"), b))
	assert.Equal(t, 2, hub.Members(NoteRoom("n1")))

	env := v1.Envelope{Event: v1.EventNoteUpdated}
	assert.Equal(t, 1, hub.Broadcast(ctx, NoteRoom("n1"), env, b))

	assert.Len(t, drain(a), 1)
	assert.Empty(t, drain(b))
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	p := NewPeer("a")

	assert.False(t, hub.Join(NoteRoom("n1"), p), "unregistered peer")

	hub.Register(p)
	hub.Join(NoteRoom("n1"), p)
	hub.Join(UserRoom("a"), p)
	hub.Unregister(p)
	hub.Unregister(p)

	assert.Zero(t, hub.Members(NoteRoom("n1")))
	assert.Zero(t, hub.Members(UserRoom("a")))

	_, ok := <-p.Outbox()
	assert.False(t, ok)
}

func TestHub_NoteShared(t *testing.T) {
	hub := NewHub()
	p := NewPeer("bob")
	hub.Register(p)
	hub.Join(UserRoom("bob"), p)

	hub.NoteShared(context.Background(), "bob", entity.NoteSharedEvent{NoteID: "n1", Title: "Plans"})

	got := drain(p)
	require.Len(t, got, 1)
	assert.Equal(t, v1.EventNoteShared, got[0].Event)

	var payload v1.NoteShared
	require.NoError(t, got[0].Decode(&payload))
	assert.Equal(t, v1.NoteShared{NoteId: "n1", Title: "Plans"}, payload)
}

func TestHub_FullOutboxDrops(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()
	p := NewPeer("a")
	hub.Register(p)
	hub.Join(NoteRoom("n1"), p)

	for range peerBuffer {
		require.Equal(t, 1, hub.Broadcast(ctx, NoteRoom("n1"), v1.Envelope{Event: v1.EventNoteUpdated}, nil))
	}
	assert.Zero(t, hub.Broadcast(ctx, NoteRoom("n1"), v1.Envelope{Event: v1.EventNoteUpdated}, nil))
}

func TestHub_Leave(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()
	alice, bob, bobTab := NewPeer("alice"), NewPeer("bob"), NewPeer("bob")
	for _, p := range []*Peer{alice, bob, bobTab} {
		hub.Register(p)
		hub.Join(NoteRoom("n1"), p)
	}
	hub.Join(UserRoom("bob"), bob)

	hub.CollaboratorRemoved(ctx, "n1", "bob")

	assert.Equal(t, 1, hub.Members(NoteRoom("n1")))
	assert.Equal(t, 1, hub.Members(UserRoom("bob")), "user room is kept")
	assert.Zero(t, hub.Broadcast(ctx, NoteRoom("n1"), v1.Envelope{Event: v1.EventNoteUpdated}, alice))
	assert.Empty(t, drain(bob))

	assert.True(t, hub.Join(NoteRoom("n1"), bob), "rejoin after eviction")
	assert.Zero(t, hub.Leave(NoteRoom("n2"), "bob"))

	hub.Unregister(bob)
	assert.Equal(t, 1, hub.Members(NoteRoom("n1")))
}
