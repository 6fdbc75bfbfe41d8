package sink

import (
	"context"
	"testing"
	"time"
)

func TestNewSelectsByScheme(t *testing.T) {
	tests := []struct {
		name       string
		connString string
		wantType   string
		wantErr    bool
	}{
		{name: "Empty", connString: "", wantType: "*sink.LogSink"},
		{name: "Redis", connString: "redis://localhost:6379", wantType: "*sink.RedisSink"},
		{name: "Mongo", connString: "mongodb://localhost:27017/events", wantType: "*sink.MongoSink"},
		{name: "Unsupported", connString: "postgres://localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.connString, "confirmations")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New(%q) succeeded, want error", tt.connString)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q): %v", tt.connString, err)
			}
			defer s.Close()
			// Clients are constructed lazily, so no backend is needed here.
			if got := typeName(s); got != tt.wantType {
				t.Errorf("New(%q) = %s, want %s", tt.connString, got, tt.wantType)
			}
		})
	}
}

func typeName(s Sink) string {
	switch s.(type) {
	case *LogSink:
		return "*sink.LogSink"
	case *RedisSink:
		return "*sink.RedisSink"
	case *MongoSink:
		return "*sink.MongoSink"
	default:
		return "unknown"
	}
}

func TestLogSinkStore(t *testing.T) {
	s := NewLogSink()
	defer s.Close()

	err := s.Store(context.Background(), &Event{
		Account: "nano_1a",
		Hash:    "ABCD",
		Amount:  "1000000",
		Time:    time.Now(),
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
}

func TestRedisSinkBadURL(t *testing.T) {
	if _, err := NewRedisSink("redis://:bad@@", "q"); err == nil {
		t.Fatal("NewRedisSink with a malformed URL succeeded")
	}
}
