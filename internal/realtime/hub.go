package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	v1 "github.com/evgeniy-krivenko/notes-collab/pkg/api/notes/v1"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

const peerBuffer = 64

func UserRoom(userID string) string { return "user:" + userID }
func NoteRoom(noteID string) string { return "note:" + noteID }

// Peer is one websocket connection registered in the Hub.
type Peer struct {
	userID string
	send   chan v1.Envelope
}

func NewPeer(userID string) *Peer {
	return &Peer{userID: userID, send: make(chan v1.Envelope, peerBuffer)}
}

func (p *Peer) UserID() string { return p.userID }

// Outbox is closed once the peer is unregistered.
func (p *Peer) Outbox() <-chan v1.Envelope { return p.send }

// Hub keeps room membership as sets, so joining a room twice is a no-op.
type Hub struct {
	mu    sync.RWMutex
	peers map[*Peer]map[string]struct{}
	rooms map[string]map[*Peer]struct{}
}

func NewHub() *Hub {
	return &Hub{
		peers: make(map[*Peer]map[string]struct{}),
		rooms: make(map[string]map[*Peer]struct{}),
	}
}

func (h *Hub) Register(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.peers[p]; !ok {
		h.peers[p] = make(map[string]struct{})
	}
}

// Unregister drops the peer from every room and closes its outbox.
func (h *Hub) Unregister(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rooms, ok := h.peers[p]
	if !ok {
		return
	}

	for room := range rooms {
		members := h.rooms[room]
		delete(members, p)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.peers, p)
	close(p.send)
}

// Join returns false when the peer already was a member or is not registered.
func (h *Hub) Join(room string, p *Peer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	rooms, ok := h.peers[p]
	if !ok {
		return false
	}
	if _, ok := rooms[room]; ok {
		return false
	}

	rooms[room] = struct{}{}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Peer]struct{})
	}
	h.rooms[room][p] = struct{}{}

	return true
}

// Leave drops every peer of userID from the room and returns how many were removed.
func (h *Hub) Leave(room, userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.rooms[room]
	removed := 0
	for p := range members {
		if p.userID != userID {
			continue
		}
		delete(members, p)
		delete(h.peers[p], room)
		removed++
	}
	if len(members) == 0 {
		delete(h.rooms, room)
	}

	return removed
}

// Broadcast sends env to every room member except the given peer and returns the number of deliveries.
// A member whose outbox is full misses the event.
func (h *Hub) Broadcast(ctx context.Context, room string, env v1.Envelope, except *Peer) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for p := range h.rooms[room] {
		if p == except {
			continue
		}

		select {
		case p.send <- env:
			delivered++
		default:
			slogx.Warn(ctx, "peer outbox is full, event dropped",
				slogx.Room(room), slogx.Event(env.Event), slogx.UserID(p.userID))
		}
	}

	return delivered
}

func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}

// NoteShared publishes note:shared to the user's room.
func (h *Hub) NoteShared(ctx context.Context, userID string, event entity.NoteSharedEvent) {
	env, err := v1.NewEnvelope(v1.EventNoteShared, v1.NoteShared{NoteId: event.NoteID, Title: event.Title})
	if err != nil {
		slogx.Error(ctx, "build note shared event", slogx.Err(err))
		return
	}

	n := h.Broadcast(ctx, UserRoom(userID), env, nil)
	slogx.Debug(ctx, "note shared event published",
		slogx.UserID(userID), slogx.NoteID(event.NoteID), slog.Int("deliveries", n))
}

// CollaboratorRemoved stops note updates from reaching a user who lost access.
func (h *Hub) CollaboratorRemoved(ctx context.Context, noteID, userID string) {
	n := h.Leave(NoteRoom(noteID), userID)
	slogx.Debug(ctx, "collaborator evicted from note room",
		slogx.UserID(userID), slogx.NoteID(noteID), slog.Int("connections", n))
}
