package nanows

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultURL is the WebSocket endpoint of a local node.
	DefaultURL = "ws://localhost:7078"

	// DefaultPingInterval is how often the liveness probe pings the node.
	DefaultPingInterval = 120 * time.Second

	defaultWriteTimeout = 10 * time.Second
)

// Session owns a single WebSocket connection to the node together with
// the liveness probe that keeps it alive. At most one connection and one
// probe goroutine exist at a time, and the probe never outlives a
// Disconnect call.
type Session struct {
	url          string
	dialer       *websocket.Dialer
	pingInterval time.Duration
	writeTimeout time.Duration

	mu      sync.Mutex
	writeMu sync.Mutex // serialises all conn writes (requests and probe pings)
	conn    *websocket.Conn

	pingCancel context.CancelFunc
	pingDone   chan struct{}
}

func newSession(url string, dialer *websocket.Dialer, pingInterval, writeTimeout time.Duration) *Session {
	return &Session{
		url:          url,
		dialer:       dialer,
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
	}
}

// Connect dials the node unless a connection already exists. Calling it
// while connected performs no second handshake and starts no second
// probe. A failed dial is reported wrapping ErrConnect.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return nil
	}

	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %w", ErrConnect, s.url, err)
	}

	pingCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.conn = conn
	s.pingCancel = cancel
	s.pingDone = done
	go s.pingLoop(pingCtx, conn, done)
	return nil
}

// Disconnect closes the connection and stops the probe. It is safe to
// call at any time, repeatedly, and always leaves the Session
// disconnected even when the underlying close fails. It does not return
// until the probe goroutine has exited.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	conn := s.conn
	cancel := s.pingCancel
	done := s.pingDone
	s.conn = nil
	s.pingCancel = nil
	s.pingDone = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	var err error
	if conn != nil {
		// Closing under the write mutex means a probe ping is either
		// fully written before the close or fails after it.
		s.writeMu.Lock()
		err = conn.Close()
		s.writeMu.Unlock()
	}
	if done != nil {
		<-done
	}
	return err
}

// Connected reports whether a connection is currently established.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Send writes one text frame to the node.
func (s *Session) Send(data []byte) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	return s.write(conn, data)
}

func (s *Session) write(conn *websocket.Conn, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// ReadFrame blocks until the next frame arrives. A clean close by the
// node ends the stream with io.EOF; any other failure of an established
// connection is reported wrapping ErrConnClosed.
func (s *Session) ReadFrame() ([]byte, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return nil, ErrNotConnected
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %w", ErrConnClosed, err)
	}
	return data, nil
}

// pingLoop sends a protocol-level ping on a fixed interval for as long
// as the connection it was started for is still current. Any failure
// ends the loop silently; the receive path's reconnect logic restores
// service.
func (s *Session) pingLoop(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	data, err := json.Marshal(pingRequest{Action: actionPing})
	if err != nil {
		return
	}

	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		if err := s.write(conn, data); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		current := s.conn
		s.mu.Unlock()
		if current != conn {
			return
		}
	}
}
