// Package transport carries protocol messages between the live client and
// the server.
package transport

import (
	"errors"
	"time"

	"github.com/gabrielmiguelok/linkhub/pkg/protocol"
)

// Common transport errors.
var (
	ErrNotConnected     = errors.New("transport not connected")
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendTimeout      = errors.New("send timeout")
)

// Transport is a bidirectional message channel to one client.
type Transport interface {
	Send(msg *protocol.Message) error
	Receive() <-chan *protocol.Message
	// Done is closed when the connection ends.
	Done() <-chan struct{}
	Close() error
	IsConnected() bool
}

// Config configures connection timing and limits.
type Config struct {
	// ReadTimeout bounds the silence between client frames. Clients send a
	// heartbeat well within it.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingInterval time.Duration

	MaxMessageSize int64
	SendBuffer     int
	ReceiveBuffer  int
}

// DefaultConfig returns the defaults used by the live handler.
func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 64 * 1024,
		SendBuffer:     64,
		ReceiveBuffer:  64,
	}
}
