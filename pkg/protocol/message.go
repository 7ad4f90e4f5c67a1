// Package protocol defines the wire protocol between the live client and
// the server.
package protocol

// MessageType identifies the type of protocol message.
type MessageType uint8

const (
	// MsgEvent is sent for user interactions.
	MsgEvent MessageType = iota
	// MsgJoin is sent when a client joins a view topic.
	MsgJoin
	// MsgLeave is sent when a client leaves a view topic.
	MsgLeave
	// MsgReply is sent as a response to a request.
	MsgReply
	// MsgDiff carries changed slots.
	MsgDiff
	// MsgCommands carries client commands to execute.
	MsgCommands
	// MsgError is sent when an error occurs.
	MsgError
	// MsgHeartbeat is sent for connection keepalive.
	MsgHeartbeat
)

// Event names with protocol meaning.
const (
	EventJoin      = "phx_join"
	EventLeave     = "phx_leave"
	EventReply     = "phx_reply"
	EventError     = "phx_error"
	EventHeartbeat = "heartbeat"
	EventDiff      = "diff"
	EventCommands  = "js"

	// HeartbeatTopic is the topic heartbeats are sent on.
	HeartbeatTopic = "phoenix"
)

func (mt MessageType) String() string {
	switch mt {
	case MsgEvent:
		return "event"
	case MsgJoin:
		return "join"
	case MsgLeave:
		return "leave"
	case MsgReply:
		return "reply"
	case MsgDiff:
		return "diff"
	case MsgCommands:
		return "commands"
	case MsgError:
		return "error"
	case MsgHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// TypeOf maps an event name to its message type.
func TypeOf(event string) MessageType {
	switch event {
	case EventJoin:
		return MsgJoin
	case EventLeave:
		return MsgLeave
	case EventReply:
		return MsgReply
	case EventError:
		return MsgError
	case EventHeartbeat:
		return MsgHeartbeat
	case EventDiff:
		return MsgDiff
	case EventCommands:
		return MsgCommands
	default:
		return MsgEvent
	}
}

// Message is one frame exchanged between client and server.
type Message struct {
	JoinRef string         `json:"join_ref,omitempty" msgpack:"join_ref,omitempty"`
	Ref     string         `json:"ref,omitempty" msgpack:"ref,omitempty"`
	Topic   string         `json:"topic" msgpack:"topic"`
	Event   string         `json:"event" msgpack:"event"`
	Payload map[string]any `json:"payload,omitempty" msgpack:"payload,omitempty"`
}

// Type returns the message type derived from the event name.
func (m *Message) Type() MessageType {
	return TypeOf(m.Event)
}

// String retrieves a string value from the payload.
func (m *Message) String(key string) string {
	if v, ok := m.Payload[key].(string); ok {
		return v
	}
	return ""
}

// Map retrieves a nested object from the payload.
func (m *Message) Map(key string) map[string]any {
	if v, ok := m.Payload[key].(map[string]any); ok {
		return v
	}
	return nil
}

// Push creates a server-initiated message on topic.
func Push(topic, event string, payload map[string]any) *Message {
	return &Message{Topic: topic, Event: event, Payload: payload}
}

// Reply creates a reply to the request identified by ref.
func Reply(joinRef, ref, topic, status string, response map[string]any) *Message {
	if response == nil {
		response = map[string]any{}
	}
	return &Message{
		JoinRef: joinRef,
		Ref:     ref,
		Topic:   topic,
		Event:   EventReply,
		Payload: map[string]any{
			"status":   status,
			"response": response,
		},
	}
}

// OkReply creates a successful reply.
func OkReply(joinRef, ref, topic string, response map[string]any) *Message {
	return Reply(joinRef, ref, topic, "ok", response)
}

// ErrorReply creates an error reply.
func ErrorReply(joinRef, ref, topic, reason string) *Message {
	return Reply(joinRef, ref, topic, "error", map[string]any{"reason": reason})
}
