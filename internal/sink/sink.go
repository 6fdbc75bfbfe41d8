// Package sink persists confirmation events relayed from the node.
package sink

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Event is one confirmation to persist.
type Event struct {
	Account string
	Hash    string
	Amount  string
	Time    time.Time
	Raw     []byte
}

// Sink stores confirmation events and tracks per-account progress.
type Sink interface {
	Store(ctx context.Context, e *Event) error
	Close() error
}

// New picks a sink implementation from the connection string's scheme.
// An empty string logs events instead of persisting them.
func New(connString, queueName string) (Sink, error) {
	switch {
	case connString == "":
		return NewLogSink(), nil
	case strings.HasPrefix(connString, "redis://"):
		return NewRedisSink(connString, queueName)
	case strings.HasPrefix(connString, "mongodb://"):
		return NewMongoSink(connString, queueName)
	default:
		return nil, fmt.Errorf("unsupported sink URL: %s", connString)
	}
}

// LogSink writes events to the process log. It is the default when no
// sink URL is configured.
type LogSink struct{}

func NewLogSink() *LogSink { return &LogSink{} }

func (*LogSink) Store(_ context.Context, e *Event) error {
	log.Printf("confirmation %s account=%s amount=%s", e.Hash, e.Account, e.Amount)
	return nil
}

func (*LogSink) Close() error { return nil }
