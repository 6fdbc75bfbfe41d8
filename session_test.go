package nanows

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestSession(url string) *Session {
	return newSession(url, websocket.DefaultDialer, DefaultPingInterval, defaultWriteTimeout)
}

func TestSessionConnectFailure(t *testing.T) {
	s := newTestSession("ws://127.0.0.1:1")

	err := s.Connect(context.Background())
	if !errors.Is(err, ErrConnect) {
		t.Fatalf("Connect to dead endpoint = %v, want ErrConnect", err)
	}
	if s.Connected() {
		t.Error("session reports connected after a failed dial")
	}
}

func TestSessionDisconnectIdempotent(t *testing.T) {
	node := newTestNode(t, nil)
	s := newTestSession(node.url())

	// Safe before any connect.
	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect before connect: %v", err)
	}

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if s.Connected() {
		t.Error("session reports connected after Disconnect")
	}
	// And again.
	if err := s.Disconnect(); err != nil {
		t.Fatalf("second Disconnect: %v", err)
	}
}

func TestSessionSendRequiresConnection(t *testing.T) {
	s := newTestSession("ws://127.0.0.1:1")

	if err := s.Send([]byte(`{"action":"ping"}`)); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Send without connect = %v, want ErrNotConnected", err)
	}
}

func TestSessionReadFrameCleanClose(t *testing.T) {
	node := newTestNode(t, func(_ int, conn *websocket.Conn) {
		defer conn.Close()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	s := newTestSession(node.url())
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer s.Disconnect()

	if _, err := s.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Fatalf("ReadFrame on clean close = %v, want io.EOF", err)
	}
}

func TestSessionReadFrameAbnormalClose(t *testing.T) {
	node := newTestNode(t, func(_ int, conn *websocket.Conn) {
		conn.UnderlyingConn().Close()
	})

	s := newTestSession(node.url())
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer s.Disconnect()

	if _, err := s.ReadFrame(); !errors.Is(err, ErrConnClosed) {
		t.Fatalf("ReadFrame on dropped transport = %v, want ErrConnClosed", err)
	}
}
