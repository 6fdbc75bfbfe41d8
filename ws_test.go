package nanows

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// testNode is an in-process stand-in for a node's WebSocket endpoint.
// Without a handler it records every frame the client sends, routing
// liveness pings to their own channel so request assertions are not
// polluted by probe traffic.
type testNode struct {
	t      *testing.T
	srv    *httptest.Server
	handle func(connNum int, conn *websocket.Conn)

	mu    sync.Mutex
	conns int

	frames chan []byte
	pings  chan []byte
}

func newTestNode(t *testing.T, handle func(connNum int, conn *websocket.Conn)) *testNode {
	t.Helper()
	n := &testNode{
		t:      t,
		handle: handle,
		frames: make(chan []byte, 32),
		pings:  make(chan []byte, 32),
	}
	upgrader := websocket.Upgrader{}
	n.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n.mu.Lock()
		n.conns++
		num := n.conns
		n.mu.Unlock()
		if n.handle != nil {
			n.handle(num, conn)
			return
		}
		n.record(conn)
	}))
	t.Cleanup(n.srv.Close)
	return n
}

func (n *testNode) record(conn *websocket.Conn) {
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var probe struct {
			Action string `json:"action"`
		}
		if json.Unmarshal(data, &probe) == nil && probe.Action == "ping" {
			n.pings <- data
			continue
		}
		n.frames <- data
	}
}

func (n *testNode) url() string {
	return "ws://" + strings.TrimPrefix(n.srv.URL, "http://")
}

func (n *testNode) connCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.conns
}

// nextFrame waits for the next non-ping frame from the client, decoded
// as a generic mapping.
func (n *testNode) nextFrame() map[string]any {
	n.t.Helper()
	select {
	case data := <-n.frames:
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			n.t.Fatalf("client sent invalid JSON %q: %v", data, err)
		}
		return m
	case <-time.After(2 * time.Second):
		n.t.Fatal("timed out waiting for a frame from the client")
	}
	return nil
}

// noFrame asserts that the client sends nothing within the window.
func (n *testNode) noFrame(window time.Duration) {
	n.t.Helper()
	select {
	case data := <-n.frames:
		n.t.Fatalf("unexpected frame from client: %s", data)
	case <-time.After(window):
	}
}
