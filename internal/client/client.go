// Package client is the session-scoped composition root of the notesync client.
// It owns the session, the gateway and the realtime channel, and opens note views on top of them.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"

	"github.com/evgeniy-krivenko/notes-collab/internal/autosave"
	"github.com/evgeniy-krivenko/notes-collab/internal/collab"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/gateway"
	"github.com/evgeniy-krivenko/notes-collab/internal/notify"
	"github.com/evgeniy-krivenko/notes-collab/internal/realtime"
	"github.com/evgeniy-krivenko/notes-collab/internal/session"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=client_options.gen.go -from-struct=Options
type Options struct {
	grpcAddr    string        `option:"mandatory" validate:"required"`
	realtimeURL string        `option:"mandatory" validate:"required"`
	store       session.Store `option:"mandatory" validate:"required"`

	notifier          notify.Notifier
	requestTimeout    time.Duration `default:"10s" validate:"min=0"`
	autosaveWindow    time.Duration `default:"1s" validate:"min=0"`
	reconnectAttempts uint          `default:"5" validate:"min=1,max=100"`
	reconnectDelay    time.Duration `default:"1s"`
	afterFunc         autosave.AfterFunc
	dialOptions       []grpc.DialOption
}

type Client struct {
	Options

	session *session.Session
	gateway *gateway.Gateway

	mu      sync.Mutex
	channel *realtime.Channel
	views   map[*NoteView]struct{}
	shared  map[uint64]func(entity.NoteSharedEvent)
	nextSub uint64
}

// New restores the stored session and, when it is still logged in, connects the realtime channel.
func New(ctx context.Context, opts Options) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate client options: %v", err)
	}

	if opts.notifier == nil {
		opts.notifier = notify.Discard
	}

	sess, err := session.Restore(ctx, opts.store)
	if err != nil {
		return nil, fmt.Errorf("restore session: %v", err)
	}

	gw, err := gateway.New(gateway.NewOptions(
		opts.grpcAddr,
		sess,
		gateway.WithTimeout(opts.requestTimeout),
		gateway.WithDialOptions(opts.dialOptions...),
	))
	if err != nil {
		return nil, fmt.Errorf("init gateway: %v", err)
	}

	c := &Client{
		Options: opts,
		session: sess,
		gateway: gw,
		views:   make(map[*NoteView]struct{}),
		shared:  make(map[uint64]func(entity.NoteSharedEvent)),
	}

	if sess.Authenticated() {
		c.startChannel(ctx)
	}

	return c, nil
}

func (c *Client) Gateway() *gateway.Gateway {
	return c.gateway
}

// User returns the logged in user; false means there is no session.
func (c *Client) User() (entity.User, bool) {
	if !c.session.Authenticated() {
		return entity.User{}, false
	}
	return c.session.User(), true
}

// Channel returns the realtime channel of the current session, nil when logged out.
func (c *Client) Channel() *realtime.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (entity.User, error) {
	token, user, err := c.gateway.Signup(ctx, name, email, password)
	if err != nil {
		return entity.User{}, err
	}

	return user, c.start(ctx, token, user)
}

func (c *Client) Login(ctx context.Context, email, password string) (entity.User, error) {
	token, user, err := c.gateway.Login(ctx, email, password)
	if err != nil {
		return entity.User{}, err
	}

	return user, c.start(ctx, token, user)
}

// Logout closes every open note view and the realtime channel, then forgets the credential.
func (c *Client) Logout(ctx context.Context) error {
	c.stop(ctx)

	if err := c.session.Logout(); err != nil {
		return fmt.Errorf("logout: %v", err)
	}

	slogx.Info(ctx, "logged out")
	return nil
}

// Close releases the client without touching the stored session.
func (c *Client) Close(ctx context.Context) error {
	c.stop(ctx)
	return c.gateway.Close()
}

// OnNoteShared registers fn for note:shared events of every channel this client opens.
func (c *Client) OnNoteShared(fn func(entity.NoteSharedEvent)) func() {
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

func (c *Client) ListNotes(ctx context.Context, tab entity.Tab, page int) (entity.NotesPage, error) {
	p, err := c.gateway.ListNotes(ctx, tab, page)
	return p, c.check(ctx, err)
}

func (c *Client) CreateNote(ctx context.Context, fields entity.NoteFields) (entity.Note, error) {
	n, err := c.gateway.CreateNote(ctx, fields)
	return n, c.check(ctx, err)
}

func (c *Client) FetchNote(ctx context.Context, id string) (entity.Note, error) {
	n, err := c.gateway.FetchNote(ctx, id)
	return n, c.check(ctx, err)
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.check(ctx, c.gateway.DeleteNote(ctx, id))
}

// Collaborators returns a registry for a note loaded just now.
func (c *Client) Collaborators(ctx context.Context, id string) (*collab.Registry, error) {
	user, ok := c.User()
	if !ok {
		return nil, entity.ErrSessionExpired
	}

	note, err := c.FetchNote(ctx, id)
	if err != nil {
		return nil, err
	}

	return collab.New(collab.NewOptions(c.gateway, note, user.ID, collab.WithNotifier(c.notifier)))
}

func (c *Client) start(ctx context.Context, token string, user entity.User) error {
	c.stop(ctx)

	if err := c.session.Login(token, user); err != nil {
		return fmt.Errorf("store session: %v", err)
	}

	slogx.Info(ctx, "logged in", slogx.UserID(user.ID))
	c.startChannel(ctx)
	return nil
}

// startChannel connects a channel for the current session. A channel that cannot connect
// is kept in its unavailable state so editors degrade to save-only.
func (c *Client) startChannel(ctx context.Context) {
	ch, err := realtime.NewChannel(realtime.NewOptions(
		c.realtimeURL,
		c.session,
		c.session.User().ID,
		realtime.WithNotifier(c.notifier),
		realtime.WithReconnectAttempts(c.reconnectAttempts),
		realtime.WithReconnectDelay(c.reconnectDelay),
	))
	if err != nil {
		slogx.Error(ctx, "init realtime channel", slogx.Err(err))
		return
	}

	ch.OnNoteShared(c.dispatchShared)

	c.mu.Lock()
	c.channel = ch
	c.mu.Unlock()

	if err := ch.Connect(ctx); err != nil {
		slogx.Warn(ctx, "realtime channel not connected", slogx.Err(err))
		if errors.Is(err, entity.ErrSessionExpired) {
			_ = c.check(ctx, err)
		}
	}
}

func (c *Client) stop(ctx context.Context) {
	c.mu.Lock()
	ch := c.channel
	c.channel = nil
	views := make([]*NoteView, 0, len(c.views))
	for v := range c.views {
		views = append(views, v)
	}
	c.mu.Unlock()

	for _, v := range views {
		v.Close()
	}

	if ch != nil {
		if err := ch.Close(); err != nil {
			slogx.Warn(ctx, "close realtime channel", slogx.Err(err))
		}
	}
}

func (c *Client) dispatchShared(e entity.NoteSharedEvent) {
	c.mu.Lock()
	subs := make([]func(entity.NoteSharedEvent), 0, len(c.shared))
	for _, fn := range c.shared {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}

// check ends the session when the server no longer accepts the credential.
// A valid credential without permission keeps the session.
func (c *Client) check(ctx context.Context, err error) error {
	if err == nil || !errors.Is(err, entity.ErrSessionExpired) {
		return err
	}

	if c.session.Authenticated() {
		if lerr := c.Logout(ctx); lerr != nil {
			slogx.Error(ctx, "logout after expired session", slogx.Err(lerr))
		}
		c.notifier.Notify(ctx, notify.Error("Session expired. Please log in again."))
	}

	return err
}
