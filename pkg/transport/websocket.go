package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/gabrielmiguelok/linkhub/pkg/logging"
	"github.com/gabrielmiguelok/linkhub/pkg/protocol"
)

// ErrOriginNotAllowed is returned when a cross-origin upgrade is refused.
var ErrOriginNotAllowed = errors.New("origin not allowed")

// WebSocketConfig configures origin checks.
type WebSocketConfig struct {
	// AllowedOrigins lists extra origins. Same-origin upgrades are always
	// allowed; "*" allows everything.
	AllowedOrigins []string

	// InsecureDevMode disables origin validation. Development only.
	InsecureDevMode bool
}

// WebSocketTransport implements Transport over a coder/websocket connection.
type WebSocketTransport struct {
	config   *Config
	wsConfig *WebSocketConfig
	codec    protocol.Codec
	logger   logging.Logger

	conn   *websocket.Conn
	sendCh chan *protocol.Message
	recvCh chan *protocol.Message
	done   chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
}

// NewWebSocketTransport creates an unconnected transport.
func NewWebSocketTransport(config *Config, wsConfig *WebSocketConfig, codec protocol.Codec, logger logging.Logger) *WebSocketTransport {
	if config == nil {
		config = DefaultConfig()
	}
	if wsConfig == nil {
		wsConfig = &WebSocketConfig{}
	}
	if codec == nil {
		codec = protocol.PhoenixCodec{}
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &WebSocketTransport{
		config:   config,
		wsConfig: wsConfig,
		codec:    codec,
		logger:   logger,
		sendCh:   make(chan *protocol.Message, config.SendBuffer),
		recvCh:   make(chan *protocol.Message, config.ReceiveBuffer),
		done:     make(chan struct{}),
	}
}

// Upgrade accepts the websocket handshake and starts the connection loops.
func (t *WebSocketTransport) Upgrade(w http.ResponseWriter, r *http.Request) error {
	if !t.originAllowed(r.Header.Get("Origin"), r.Host) {
		http.Error(w, "Forbidden: origin not allowed", http.StatusForbidden)
		return ErrOriginNotAllowed
	}

	// Origins were checked above, so the library's own same-host check is
	// skipped to honour AllowedOrigins.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return fmt.Errorf("accept websocket: %w", err)
	}
	conn.SetReadLimit(t.config.MaxMessageSize)

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()

	go t.readLoop(conn)
	go t.writeLoop(conn)
	go t.pingLoop(conn)
	return nil
}

func (t *WebSocketTransport) originAllowed(origin, host string) bool {
	if t.wsConfig.InsecureDevMode || origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == host {
		return true
	}
	for _, allowed := range t.wsConfig.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
		if au, err := url.Parse(allowed); err == nil && au.Host != "" && au.Host == u.Host {
			return true
		}
	}
	return false
}

// Send queues msg for the write loop.
func (t *WebSocketTransport) Send(msg *protocol.Message) error {
	if !t.IsConnected() {
		return ErrNotConnected
	}
	timer := time.NewTimer(t.config.WriteTimeout)
	defer timer.Stop()

	select {
	case t.sendCh <- msg:
		return nil
	case <-t.done:
		return ErrConnectionClosed
	case <-timer.C:
		return ErrSendTimeout
	}
}

func (t *WebSocketTransport) Receive() <-chan *protocol.Message {
	return t.recvCh
}

func (t *WebSocketTransport) Done() <-chan struct{} {
	return t.done
}

func (t *WebSocketTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Codec returns the codec negotiated for this connection.
func (t *WebSocketTransport) Codec() protocol.Codec {
	return t.codec
}

// Close ends the connection. It is safe to call more than once.
func (t *WebSocketTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		t.mu.Lock()
		conn := t.conn
		t.mu.Unlock()
		if conn != nil {
			err = conn.Close(websocket.StatusNormalClosure, "closing")
		}
	})
	return err
}

func (t *WebSocketTransport) readLoop(conn *websocket.Conn) {
	defer t.Close()

	for {
		ctx, cancel := context.WithTimeout(context.Background(), t.config.ReadTimeout)
		_, data, err := conn.Read(ctx)
		cancel()
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				t.logger.Debug("websocket read ended", logging.Err(err))
			}
			return
		}

		msg, err := t.codec.Decode(data)
		if err != nil {
			t.logger.Debug("dropping undecodable frame", logging.Err(err))
			continue
		}

		select {
		case t.recvCh <- msg:
		case <-t.done:
			return
		}
	}
}

func (t *WebSocketTransport) writeLoop(conn *websocket.Conn) {
	typ := websocket.MessageText
	if t.codec.Binary() {
		typ = websocket.MessageBinary
	}

	for {
		select {
		case msg := <-t.sendCh:
			data, err := t.codec.Encode(msg)
			if err != nil {
				t.logger.Warn("encode outgoing message", logging.String("event", msg.Event), logging.Err(err))
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), t.config.WriteTimeout)
			err = conn.Write(ctx, typ, data)
			cancel()
			if err != nil {
				t.Close()
				return
			}
		case <-t.done:
			return
		}
	}
}

func (t *WebSocketTransport) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(t.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), t.config.WriteTimeout)
			err := conn.Ping(ctx)
			cancel()
			if err != nil {
				t.Close()
				return
			}
		case <-t.done:
			return
		}
	}
}
