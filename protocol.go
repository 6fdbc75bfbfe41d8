package nanows

import (
	"encoding/json"
	"strconv"
)

// Topics exposed by the node's WebSocket endpoint.
const (
	TopicConfirmation        = "confirmation"
	TopicVote                = "vote"
	TopicTelemetry           = "telemetry"
	TopicStartedElection     = "started_election"
	TopicStoppedElection     = "stopped_election"
	TopicNewUnconfirmedBlock = "new_unconfirmed_block"
	TopicBootstrap           = "bootstrap"
	TopicActiveDifficulty    = "active_difficulty"
	TopicWork                = "work"
)

const (
	actionSubscribe   = "subscribe"
	actionUnsubscribe = "unsubscribe"
	actionUpdate      = "update"
	actionPing        = "ping"
)

// ackFields are the optional acknowledgment fields every action accepts.
// The node expects the ack flag as the string "true"/"false".
type ackFields struct {
	Ack string `json:"ack,omitempty"`
	ID  string `json:"id,omitempty"`
}

type subscribeRequest struct {
	Action  string         `json:"action"`
	Topic   string         `json:"topic"`
	Options map[string]any `json:"options"`
	ackFields
}

type topicRequest struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
	ackFields
}

type updateRequest struct {
	Action  string         `json:"action"`
	Topic   string         `json:"topic"`
	Options map[string]any `json:"options"`
}

type pingRequest struct {
	Action string `json:"action"`
	ackFields
}

// RequestOption customizes a single outbound request.
type RequestOption func(*ackFields)

// WithAck asks the node to acknowledge the request. The flag is attached
// only when the caller sets it, so an explicit false is sent as "false"
// rather than silently dropped.
func WithAck(ack bool) RequestOption {
	return func(f *ackFields) { f.Ack = strconv.FormatBool(ack) }
}

// WithID tags the request with a correlation id the node echoes back in
// its acknowledgment frame.
func WithID(id string) RequestOption {
	return func(f *ackFields) { f.ID = id }
}

func applyRequestOptions(f *ackFields, opts []RequestOption) {
	for _, opt := range opts {
		opt(f)
	}
}

// Message is one decoded inbound frame. Event frames carry a topic and a
// topic-specific payload; acknowledgment frames carry the echoed action
// in Ack instead.
type Message struct {
	Topic   string          `json:"topic"`
	Time    string          `json:"time"`
	Ack     string          `json:"ack"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"message"`

	raw []byte
}

// Raw returns the complete frame as received from the node.
func (m *Message) Raw() []byte { return m.raw }

// Decode unmarshals the topic-specific payload into v.
func (m *Message) Decode(v any) error {
	return json.Unmarshal(m.Payload, v)
}
