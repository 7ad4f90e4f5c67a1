package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrInvalidMessage is returned for frames that do not decode to a message.
var ErrInvalidMessage = errors.New("invalid message format")

// Codec handles message encoding/decoding.
type Codec interface {
	Encode(msg *Message) ([]byte, error)
	Decode(data []byte) (*Message, error)
	Name() string
	// Binary reports whether frames must be sent as binary websocket messages.
	Binary() bool
}

// CodecFor returns the codec negotiated by the client's vsn parameter.
// Unknown versions fall back to the Phoenix JSON format.
func CodecFor(vsn string) Codec {
	if vsn == "msgpack" {
		return MsgPackCodec{}
	}
	return PhoenixCodec{}
}

// PhoenixCodec implements the Phoenix wire format:
// [join_ref, ref, topic, event, payload]
type PhoenixCodec struct{}

func (PhoenixCodec) Encode(msg *Message) ([]byte, error) {
	payload := msg.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return json.Marshal([]any{
		nullable(msg.JoinRef),
		nullable(msg.Ref),
		msg.Topic,
		msg.Event,
		payload,
	})
}

func (PhoenixCodec) Decode(data []byte) (*Message, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if len(tuple) != 5 {
		return nil, fmt.Errorf("%w: expected 5 elements, got %d", ErrInvalidMessage, len(tuple))
	}

	msg := &Message{}
	var ref *string
	if err := json.Unmarshal(tuple[0], &ref); err == nil && ref != nil {
		msg.JoinRef = *ref
	}
	ref = nil
	if err := json.Unmarshal(tuple[1], &ref); err == nil && ref != nil {
		msg.Ref = *ref
	}
	if err := json.Unmarshal(tuple[2], &msg.Topic); err != nil {
		return nil, fmt.Errorf("%w: topic: %v", ErrInvalidMessage, err)
	}
	if err := json.Unmarshal(tuple[3], &msg.Event); err != nil {
		return nil, fmt.Errorf("%w: event: %v", ErrInvalidMessage, err)
	}
	if err := json.Unmarshal(tuple[4], &msg.Payload); err != nil || msg.Payload == nil {
		msg.Payload = map[string]any{}
	}
	return msg, nil
}

func (PhoenixCodec) Name() string { return "phoenix" }
func (PhoenixCodec) Binary() bool { return false }

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// MsgPackCodec encodes messages as MessagePack maps.
type MsgPackCodec struct{}

func (MsgPackCodec) Encode(msg *Message) ([]byte, error) {
	return msgpack.Marshal(msg)
}

func (MsgPackCodec) Decode(data []byte) (*Message, error) {
	var msg Message
	if err := msgpack.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.Event == "" {
		return nil, fmt.Errorf("%w: missing event", ErrInvalidMessage)
	}
	if msg.Payload == nil {
		msg.Payload = map[string]any{}
	}
	return &msg, nil
}

func (MsgPackCodec) Name() string { return "msgpack" }
func (MsgPackCodec) Binary() bool { return true }
