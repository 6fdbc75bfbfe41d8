// Package nanows is a client for the Nano node's WebSocket endpoint.
// It maintains one persistent connection, lets callers subscribe to
// named event topics, and exposes the inbound event stream with
// transparent reconnection and protocol-level keepalive.
package nanows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Client subscribes to node event topics and consumes the decoded
// message stream. It drives a single Session and is meant to be used
// from one goroutine; the liveness probe is the only background
// activity.
//
// Subscriptions are not replayed when the connection is re-established.
// Callers that need resubscription should register a reconnect hook and
// issue their subscribe calls from it.
type Client struct {
	session *Session
	closed  atomic.Bool

	onReconnect func()
	dropped     bool

	url          string
	dialer       *websocket.Dialer
	pingInterval time.Duration
	writeTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithPingInterval overrides the liveness probe interval.
func WithPingInterval(d time.Duration) Option {
	return func(c *Client) { c.pingInterval = d }
}

// WithWriteTimeout overrides the per-frame write deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Client) { c.writeTimeout = d }
}

// WithDialer replaces the WebSocket dialer, for custom TLS or proxy
// settings.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithReconnectHook registers fn to run each time the receive loop
// re-establishes a dropped connection, before any message from the new
// connection is returned. The hook runs on the receiving goroutine and
// may issue subscribe calls.
func WithReconnectHook(fn func()) Option {
	return func(c *Client) { c.onReconnect = fn }
}

// New creates a Client for the node at url. An empty url selects
// DefaultURL. No connection is made until Connect or the first
// auto-connecting call.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:          url,
		dialer:       websocket.DefaultDialer,
		pingInterval: DefaultPingInterval,
		writeTimeout: defaultWriteTimeout,
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	for _, opt := range opts {
		opt(c)
	}
	c.session = newSession(c.url, c.dialer, c.pingInterval, c.writeTimeout)
	return c
}

// Connect establishes the connection. Most callers never need it:
// subscribe, update and receive connect on demand. Connecting again
// after Close re-arms the client.
func (c *Client) Connect(ctx context.Context) error {
	c.closed.Store(false)
	return c.session.Connect(ctx)
}

// Close tears the connection down. A Receive in flight observes the
// closure and returns ErrClientClosed instead of reconnecting.
func (c *Client) Close() error {
	c.closed.Store(true)
	return c.session.Disconnect()
}

// Connected reports whether the client currently holds a connection.
func (c *Client) Connected() bool {
	return c.session.Connected()
}

// Subscribe declares interest in a topic, connecting first when needed.
// The options mapping is forwarded verbatim; nil sends an empty mapping.
// No acknowledgment is awaited: ack frames, when requested, arrive on
// the inbound stream.
func (c *Client) Subscribe(ctx context.Context, topic string, options map[string]any, opts ...RequestOption) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	req := subscribeRequest{
		Action:  actionSubscribe,
		Topic:   topic,
		Options: options,
	}
	if req.Options == nil {
		req.Options = map[string]any{}
	}
	applyRequestOptions(&req.ackFields, opts)
	return c.send(req)
}

// Unsubscribe cancels a topic subscription. It never connects on its
// own: unsubscribing without a connection is a caller error, reported
// as ErrNotConnected.
func (c *Client) Unsubscribe(ctx context.Context, topic string, opts ...RequestOption) error {
	if !c.session.Connected() {
		return ErrNotConnected
	}
	req := topicRequest{
		Action: actionUnsubscribe,
		Topic:  topic,
	}
	applyRequestOptions(&req.ackFields, opts)
	return c.send(req)
}

// UpdateSubscription adds and removes accounts on an existing
// account-filtered subscription, connecting first when needed. The two
// lists must be disjoint; an overlap fails with *ValidationError before
// anything is sent. Only the non-empty lists are included in the frame.
func (c *Client) UpdateSubscription(ctx context.Context, topic string, accountsAdd, accountsDel []string) error {
	if shared := intersect(accountsAdd, accountsDel); len(shared) > 0 {
		return &ValidationError{Accounts: shared}
	}
	if err := c.Connect(ctx); err != nil {
		return err
	}
	options := map[string]any{}
	if len(accountsAdd) > 0 {
		options["accounts_add"] = accountsAdd
	}
	if len(accountsDel) > 0 {
		options["accounts_del"] = accountsDel
	}
	return c.send(updateRequest{
		Action:  actionUpdate,
		Topic:   topic,
		Options: options,
	})
}

// Keepalive sends an explicit ping, connecting first when needed. The
// Session pings on its own while connected; this is for callers that
// want an acknowledged ping.
func (c *Client) Keepalive(ctx context.Context, opts ...RequestOption) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	req := pingRequest{Action: actionPing}
	applyRequestOptions(&req.ackFields, opts)
	return c.send(req)
}

// Receive blocks until the next decoded message arrives. When the node
// drops the connection, cleanly or not, Receive disconnects, re-dials
// and keeps going: the caller only observes a pause. Any other failure
// disconnects and is returned, as is ErrClientClosed after Close. With
// a non-empty topicFilter, frames for other topics are skipped.
func (c *Client) Receive(ctx context.Context, topicFilter string) (*Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.closed.Load() {
			return nil, ErrClientClosed
		}

		if !c.session.Connected() {
			if err := c.session.Connect(ctx); err != nil {
				return nil, err
			}
			if c.dropped {
				c.dropped = false
				if c.onReconnect != nil {
					c.onReconnect()
				}
			}
		}

		data, err := c.session.ReadFrame()
		if err != nil {
			c.session.Disconnect()
			if c.closed.Load() {
				return nil, ErrClientClosed
			}
			if errors.Is(err, io.EOF) || errors.Is(err, ErrConnClosed) {
				c.dropped = true
				continue
			}
			return nil, err
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.session.Disconnect()
			return nil, fmt.Errorf("nanows: decode frame: %w", err)
		}
		msg.raw = data

		if topicFilter != "" && msg.Topic != topicFilter {
			continue
		}
		return &msg, nil
	}
}

func (c *Client) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.session.Send(data)
}

// intersect returns the elements of a that also occur in b, preserving
// a's order and without duplicates.
func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}
	var shared []string
	seen := make(map[string]struct{})
	for _, s := range a {
		if _, ok := inB[s]; !ok {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		shared = append(shared, s)
	}
	return shared
}
