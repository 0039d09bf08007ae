// Package realtime holds both ends of the push channel: the client Channel and the server room Hub.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gorilla/websocket"

	"github.com/evgeniy-krivenko/notes-collab/internal/api/notes/converter"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/notify"
	v1 "github.com/evgeniy-krivenko/notes-collab/pkg/api/notes/v1"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

var ErrClosed = errors.New("realtime channel closed")

type Status int

const (
	StatusIdle Status = iota
	StatusConnecting
	StatusConnected
	StatusReconnecting
	StatusUnavailable
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	case StatusUnavailable:
		return "unavailable"
	case StatusClosed:
		return "closed"
	default:
		return "idle"
	}
}

// tokenSource returns the credential current at call time.
type tokenSource interface {
	Token() string
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=channel_options.gen.go -from-struct=Options
type Options struct {
	url    string      `option:"mandatory" validate:"required,url"`
	tokens tokenSource `option:"mandatory" validate:"required"`
	userID string      `option:"mandatory" validate:"required"`

	notifier notify.Notifier
	dialer   *websocket.Dialer

	reconnectAttempts uint          `default:"5" validate:"min=1,max=100"`
	reconnectDelay    time.Duration `default:"1s"`
	writeTimeout      time.Duration `default:"10s"`
}

// Channel is one websocket connection per authenticated session.
// It reconnects with a bounded number of attempts and re-announces joined rooms.
type Channel struct {
	Options

	mu      sync.Mutex
	conn    *websocket.Conn
	status  Status
	rooms   map[string]struct{}
	shared  map[uint64]func(entity.NoteSharedEvent)
	updated map[uint64]func(entity.Note)
	nextSub uint64
	cancel  context.CancelFunc
	done    chan struct{}

	writeMu sync.Mutex
}

func NewChannel(opts Options) (*Channel, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate realtime channel options: %v", err)
	}

	if opts.notifier == nil {
		opts.notifier = notify.Discard
	}
	if opts.dialer == nil {
		opts.dialer = websocket.DefaultDialer
	}

	return &Channel{
		Options: opts,
		rooms:   make(map[string]struct{}),
		shared:  make(map[uint64]func(entity.NoteSharedEvent)),
		updated: make(map[uint64]func(entity.Note)),
		done:    make(chan struct{}),
	}, nil
}

// Connect blocks until the first connection is established or the retry budget is spent.
// A spent budget leaves the channel Unavailable and returns an error wrapping
// entity.ErrChannelUnavailable, which callers are expected to treat as non-fatal.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusIdle {
		c.mu.Unlock()
		return fmt.Errorf("realtime connect: channel is %s", c.status)
	}
	c.status = StatusConnecting
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.mu.Unlock()

	dialCtx, stop := context.WithCancel(ctx)
	defer stop()
	defer context.AfterFunc(runCtx, stop)()

	conn, err := c.dial(dialCtx)
	if err != nil {
		close(c.done)
		// A rejected credential is reported by the caller as an expired session.
		unauthorized := errors.Is(err, entity.ErrUnauthorized)
		c.unavailable(runCtx, !unauthorized)
		cancel()
		if unauthorized {
			return fmt.Errorf("realtime connect: %w", err)
		}
		return fmt.Errorf("realtime connect: %w: %v", entity.ErrChannelUnavailable, err)
	}

	if err := c.attach(runCtx, conn); err != nil {
		close(c.done)
		return fmt.Errorf("realtime connect: %w", err)
	}

	go c.run(runCtx, conn)

	return nil
}

func (c *Channel) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Channel) Available() bool {
	return c.Status() == StatusConnected
}

// JoinNoteRoom is idempotent: a room joined before is not announced again
// until the connection is re-established.
func (c *Channel) JoinNoteRoom(ctx context.Context, noteID string) error {
	c.mu.Lock()
	if _, ok := c.rooms[noteID]; ok {
		c.mu.Unlock()
		return nil
	}
	c.rooms[noteID] = struct{}{}
	c.mu.Unlock()

	env, err := v1.NewEnvelope(v1.EventJoinNoteRoom, v1.JoinNoteRoom{NoteId: noteID})
	if err != nil {
		return err
	}

	return c.send(ctx, env)
}

// UpdateNote announces a saved note to the other members of its room.
func (c *Channel) UpdateNote(ctx context.Context, note entity.Note) error {
	env, err := v1.NewEnvelope(v1.EventUpdateNote, converter.ConvertNoteToProto(note))
	if err != nil {
		return err
	}

	return c.send(ctx, env)
}

// OnNoteShared registers fn for note:shared events and returns its unsubscribe func.
func (c *Channel) OnNoteShared(fn func(entity.NoteSharedEvent)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.shared[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.shared, id)
	}
}

// OnNoteUpdated registers fn for noteUpdated events and returns its unsubscribe func.
func (c *Channel) OnNoteUpdated(fn func(entity.Note)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.updated[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.updated, id)
	}
}

// Close tears the connection down and waits for the read loop to exit.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.status == StatusClosed {
		c.mu.Unlock()
		return nil
	}
	started := c.status != StatusIdle
	c.status = StatusClosed
	conn := c.conn
	c.conn = nil
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if conn != nil {
		c.writeMu.Lock()
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.writeMu.Unlock()
		_ = conn.Close()
	}

	if started {
		<-c.done
	}

	return nil
}

func (c *Channel) run(ctx context.Context, conn *websocket.Conn) {
	defer close(c.done)

	for {
		err := c.readLoop(ctx, conn)
		if ctx.Err() != nil {
			return
		}

		slogx.Warn(ctx, "realtime connection lost", slogx.UserID(c.userID), slogx.Err(err))
		if !c.detach(conn) {
			return
		}

		conn, err = c.dial(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.unavailable(ctx, true)
			}
			return
		}

		if err := c.attach(ctx, conn); err != nil {
			return
		}
		slogx.Info(ctx, "realtime connection restored", slogx.UserID(c.userID))
	}
}

func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var env v1.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return err
		}

		c.dispatch(ctx, env)
	}
}

func (c *Channel) dispatch(ctx context.Context, env v1.Envelope) {
	switch env.Event {
	case v1.EventNoteUpdated:
		var payload v1.Note
		if err := env.Decode(&payload); err != nil {
			slogx.Warn(ctx, "bad realtime event", slogx.Event(env.Event), slogx.Err(err))
			return
		}
		note := converter.ConvertNoteToEntity(&payload)

		c.notifier.Notify(ctx, notify.Info("Note updated by collaborator."))

		c.mu.Lock()
		subs := make([]func(entity.Note), 0, len(c.updated))
		for _, fn := range c.updated {
			subs = append(subs, fn)
		}
		c.mu.Unlock()

		for _, fn := range subs {
			fn(note)
		}

	case v1.EventNoteShared:
		var payload v1.NoteShared
		if err := env.Decode(&payload); err != nil {
			slogx.Warn(ctx, "bad realtime event", slogx.Event(env.Event), slogx.Err(err))
			return
		}
		event := entity.NoteSharedEvent{NoteID: payload.NoteId, Title: payload.Title}

		c.notifier.Notify(ctx, notify.Info(fmt.Sprintf("Note %q was shared with you.", event.Title)))

		c.mu.Lock()
		subs := make([]func(entity.NoteSharedEvent), 0, len(c.shared))
		for _, fn := range c.shared {
			subs = append(subs, fn)
		}
		c.mu.Unlock()

		for _, fn := range subs {
			fn(event)
		}

	default:
		slogx.Debug(ctx, "unknown realtime event", slogx.Event(env.Event))
	}
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, err
	}

	var conn *websocket.Conn
	err = retry.Do(
		func() error {
			token := c.tokens.Token()
			if token == "" {
				return entity.ErrSessionExpired
			}

			header := http.Header{}
			header.Set("Authorization", "Bearer "+token)

			cn, resp, err := c.dialer.DialContext(ctx, endpoint, header)
			if resp != nil && resp.Body != nil {
				_ = resp.Body.Close()
			}
			if err != nil {
				if resp != nil && resp.StatusCode == http.StatusUnauthorized {
					return fmt.Errorf("dial realtime: %w", entity.ErrSessionExpired)
				}
				return fmt.Errorf("dial realtime: %v", err)
			}

			conn = cn
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.reconnectAttempts),
		retry.Delay(c.reconnectDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, entity.ErrUnauthorized)
		}),
		retry.OnRetry(func(attempt uint, err error) {
			slogx.Warn(ctx, "failed to connect realtime channel",
				slog.Uint64("attempt", uint64(attempt)+1), slogx.Err(err))
		}),
	)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

func (c *Channel) endpoint() (string, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("parse realtime url: %v", err)
	}

	q := u.Query()
	q.Set("userId", c.userID)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// attach installs conn and re-announces the user room and every joined note room.
func (c *Channel) attach(ctx context.Context, conn *websocket.Conn) error {
	c.mu.Lock()
	if c.status == StatusClosed {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.status = StatusConnected
	rooms := make([]string, 0, len(c.rooms))
	for id := range c.rooms {
		rooms = append(rooms, id)
	}
	c.mu.Unlock()

	joins := make([]v1.Envelope, 0, len(rooms)+1)
	env, _ := v1.NewEnvelope(v1.EventJoinUserRoom, v1.JoinUserRoom{UserId: c.userID})
	joins = append(joins, env)
	for _, id := range rooms {
		env, _ := v1.NewEnvelope(v1.EventJoinNoteRoom, v1.JoinNoteRoom{NoteId: id})
		joins = append(joins, env)
	}

	for _, env := range joins {
		if err := c.send(ctx, env); err != nil {
			slogx.Warn(ctx, "failed to join room", slogx.Event(env.Event), slogx.Err(err))
		}
	}

	return nil
}

// detach forgets conn; false means the channel was closed meanwhile.
func (c *Channel) detach(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = conn.Close()
	if c.status == StatusClosed {
		return false
	}
	c.conn = nil
	c.status = StatusReconnecting
	return true
}

func (c *Channel) unavailable(ctx context.Context, warn bool) {
	c.mu.Lock()
	if c.status == StatusClosed {
		c.mu.Unlock()
		return
	}
	c.status = StatusUnavailable
	c.conn = nil
	c.mu.Unlock()

	slogx.Warn(ctx, "realtime channel unavailable", slogx.UserID(c.userID))
	if warn {
		c.notifier.Notify(ctx, notify.Warning("Live updates are unavailable."))
	}
}

func (c *Channel) send(ctx context.Context, env v1.Envelope) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return entity.ErrChannelUnavailable
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := conn.WriteJSON(env); err != nil {
		return fmt.Errorf("send %s: %w: %v", env.Event, entity.ErrChannelUnavailable, err)
	}

	slogx.Debug(ctx, "realtime event sent", slogx.Event(env.Event))
	return nil
}
