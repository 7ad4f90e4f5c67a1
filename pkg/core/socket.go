package core

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Common socket errors.
var (
	ErrSocketClosed = errors.New("socket is closed")
)

// Transport sends server pushes to the client.
type Transport interface {
	Send(msg Message) error
	Close() error
}

// Message is a server push.
type Message struct {
	Topic   string
	Event   string
	Payload map[string]any
}

// Socket is the server side of one client connection.
type Socket struct {
	id          string
	topic       atomic.Value
	transport   Transport
	connectedAt time.Time

	lastActivity atomic.Int64

	info      chan any
	done      chan struct{}
	closeOnce sync.Once
}

// NewSocket creates a socket with the given ID and transport.
func NewSocket(id string, transport Transport) *Socket {
	now := time.Now()
	s := &Socket{
		id:          id,
		transport:   transport,
		connectedAt: now,
		info:        make(chan any, 16),
		done:        make(chan struct{}),
	}
	s.topic.Store("")
	s.lastActivity.Store(now.UnixNano())
	return s
}

// ID returns the socket's unique identifier.
func (s *Socket) ID() string {
	return s.id
}

// Topic returns the view topic the socket joined.
func (s *Socket) Topic() string {
	return s.topic.Load().(string)
}

// SetTopic records the joined topic.
func (s *Socket) SetTopic(topic string) {
	s.topic.Store(topic)
}

// ConnectedAt returns when the socket connected.
func (s *Socket) ConnectedAt() time.Time {
	return s.connectedAt
}

// LastActivity returns the time of last activity.
func (s *Socket) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// UpdateActivity updates the last activity timestamp.
func (s *Socket) UpdateActivity() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// Push sends an event to the client on the socket's topic.
func (s *Socket) Push(event string, payload map[string]any) error {
	select {
	case <-s.done:
		return ErrSocketClosed
	default:
	}
	return s.transport.Send(Message{Topic: s.Topic(), Event: event, Payload: payload})
}

// SendInfo delivers msg to the component's HandleInfo from the socket's
// message loop. It is safe to call from any goroutine and reports false
// once the socket is closed.
func (s *Socket) SendInfo(msg any) bool {
	select {
	case s.info <- msg:
		return true
	case <-s.done:
		return false
	}
}

// Info returns the channel drained by the message loop.
func (s *Socket) Info() <-chan any {
	return s.info
}

// Done is closed when the socket closes.
func (s *Socket) Done() <-chan struct{} {
	return s.done
}

// Close closes the socket and its transport.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		if s.transport != nil {
			err = s.transport.Close()
		}
	})
	return err
}

// SocketManager tracks live sockets.
type SocketManager struct {
	sockets map[string]*Socket
	mu      sync.RWMutex
}

// NewSocketManager creates a new socket manager.
func NewSocketManager() *SocketManager {
	return &SocketManager{sockets: make(map[string]*Socket)}
}

// Add registers a socket.
func (sm *SocketManager) Add(socket *Socket) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sockets[socket.ID()] = socket
}

// Remove unregisters a socket.
func (sm *SocketManager) Remove(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sockets, id)
}

// Count returns the number of live sockets.
func (sm *SocketManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sockets)
}

// CloseAll closes every socket. Used on shutdown.
func (sm *SocketManager) CloseAll() {
	sm.mu.RLock()
	sockets := make([]*Socket, 0, len(sm.sockets))
	for _, s := range sm.sockets {
		sockets = append(sockets, s)
	}
	sm.mu.RUnlock()

	for _, s := range sockets {
		_ = s.Close()
	}
}
