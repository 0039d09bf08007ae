// Package realtime serves the websocket endpoint that feeds the room Hub.
package realtime

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/realtime"
	v1 "github.com/evgeniy-krivenko/notes-collab/pkg/api/notes/v1"
	"github.com/evgeniy-krivenko/notes-collab/pkg/grpcx"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

const (
	Path = "/ws"

	writeWait = 10 * time.Second
)

type notesUsecase interface {
	GetNote(ctx context.Context, userID, id string) (entity.Note, error)
}

type tokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type Handler struct {
	hub      *realtime.Hub
	notes    notesUsecase
	auth     tokenVerifier
	upgrader websocket.Upgrader
}

func New(hub *realtime.Hub, notes notesUsecase, auth tokenVerifier) *Handler {
	return &Handler{
		hub:   hub,
		notes: notes,
		auth:  auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Router mounts the websocket endpoint on a gorilla/mux router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Methods(http.MethodGet).Path(Path).HandlerFunc(h.serveWS)
	return r
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := grpcx.BearerToken(r.Header.Values("Authorization"))
	if !ok {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	userID, err := h.auth.VerifyToken(ctx, token)
	if err != nil {
		http.Error(w, "invalid bearer token", http.StatusUnauthorized)
		return
	}

	if q := r.URL.Query().Get("userId"); q != "" && q != userID {
		http.Error(w, "user id does not match token", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slogx.Warn(ctx, "failed to upgrade", slogx.Err(err))
		return
	}
	defer conn.Close()

	peer := realtime.NewPeer(userID)
	h.hub.Register(peer)
	defer h.hub.Unregister(peer)

	go writePump(ctx, conn, peer)

	slogx.Debug(ctx, "peer connected", slogx.UserID(userID))

	for {
		var env v1.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				slogx.Debug(ctx, "read from peer", slogx.UserID(userID), slogx.Err(err))
			}
			return
		}

		h.dispatch(ctx, peer, env)
	}
}

func writePump(ctx context.Context, conn *websocket.Conn, peer *realtime.Peer) {
	for env := range peer.Outbox() {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(env); err != nil {
			slogx.Debug(ctx, "write to peer", slogx.UserID(peer.UserID()), slogx.Err(err))
			_ = conn.Close()
			return
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, peer *realtime.Peer, env v1.Envelope) {
	userID := peer.UserID()

	switch env.Event {
	case v1.EventJoinUserRoom:
		var req v1.JoinUserRoom
		if err := env.Decode(&req); err != nil || req.UserId != userID {
			slogx.Warn(ctx, "rejected user room join", slogx.UserID(userID), slogx.Err(err))
			return
		}
		h.hub.Join(realtime.UserRoom(userID), peer)

	case v1.EventJoinNoteRoom:
		var req v1.JoinNoteRoom
		if err := env.Decode(&req); err != nil {
			slogx.Warn(ctx, "bad note room join", slogx.UserID(userID), slogx.Err(err))
			return
		}
		if _, err := h.notes.GetNote(ctx, userID, req.NoteId); err != nil {
			slogx.Warn(ctx, "rejected note room join", slogx.UserID(userID), slogx.NoteID(req.NoteId), slogx.Err(err))
			return
		}
		h.hub.Join(realtime.NoteRoom(req.NoteId), peer)

	case v1.EventUpdateNote:
		var req v1.Note
		if err := env.Decode(&req); err != nil {
			slogx.Warn(ctx, "bad update note event", slogx.UserID(userID), slogx.Err(err))
			return
		}

		if req.Id == "" {
			slogx.Warn(ctx, "update note event without id", slogx.UserID(userID))
			return
		}
		if _, err := h.notes.GetNote(ctx, userID, req.Id); err != nil {
			slogx.Warn(ctx, "rejected update note event", slogx.UserID(userID), slogx.NoteID(req.Id), slogx.Err(err))
			return
		}

		// The announced note is relayed as saved by the sender.
		h.hub.Broadcast(ctx, realtime.NoteRoom(req.Id), v1.Envelope{Event: v1.EventNoteUpdated, Data: env.Data}, peer)

	default:
		slogx.Debug(ctx, "unknown event", slogx.UserID(userID), slogx.Event(env.Event))
	}
}
