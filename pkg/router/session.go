package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabrielmiguelok/linkhub/pkg/core"
	"github.com/gabrielmiguelok/linkhub/pkg/logging"
	"github.com/gabrielmiguelok/linkhub/pkg/pool"
	"github.com/gabrielmiguelok/linkhub/pkg/protocol"
	"github.com/gabrielmiguelok/linkhub/pkg/transport"
)

// Errors returned to clients in error replies.
var (
	ErrNotJoined     = errors.New("not joined")
	ErrAlreadyJoined = errors.New("already joined")
	ErrUnknownTopic  = errors.New("unknown topic")
)

// TopicPrefix prefixes the page path in live topics.
const TopicPrefix = "lv:"

// liveSession is one joined view. It is owned by the goroutine running
// loop, so its fields need no locking.
type liveSession struct {
	router    *Router
	socket    *core.Socket
	ws        transport.Transport
	logger    logging.Logger
	ctx       context.Context
	component core.Component
	version   uint64
	hashes    slotHashes
}

func (s *liveSession) loop() {
	defer s.disconnect(core.TerminateShutdown)

	for {
		select {
		case msg, ok := <-s.ws.Receive():
			if !ok {
				return
			}
			s.socket.UpdateActivity()
			if !s.handle(msg) {
				return
			}
		case info := <-s.socket.Info():
			if s.component == nil {
				continue
			}
			if err := s.component.HandleInfo(s.ctx, info); err != nil {
				s.logger.Warn("handle info failed", logging.Err(err))
				continue
			}
			s.pushDiff()
		case <-s.ws.Done():
			return
		case <-s.socket.Done():
			return
		}
	}
}

// handle processes one client message and reports whether the loop
// should continue.
func (s *liveSession) handle(msg *protocol.Message) bool {
	switch msg.Type() {
	case protocol.MsgHeartbeat:
		s.send(protocol.OkReply(msg.JoinRef, msg.Ref, msg.Topic, nil))
	case protocol.MsgJoin:
		s.join(msg)
	case protocol.MsgLeave:
		s.send(protocol.OkReply(msg.JoinRef, msg.Ref, msg.Topic, nil))
		s.disconnect(core.TerminateNormal)
		return false
	default:
		s.event(msg)
	}
	return true
}

func (s *liveSession) join(msg *protocol.Message) {
	if s.component != nil {
		s.replyError(msg, ErrAlreadyJoined)
		return
	}

	path, hasPrefix := strings.CutPrefix(msg.Topic, TopicPrefix)
	factory, ok := s.router.lookup(path)
	if !hasPrefix || !ok {
		s.replyError(msg, fmt.Errorf("%w: %s", ErrUnknownTopic, msg.Topic))
		return
	}

	component := factory()
	if bc, ok := component.(interface{ SetSocket(*core.Socket) }); ok {
		bc.SetSocket(s.socket)
	}
	s.socket.SetTopic(msg.Topic)
	s.logger = s.logger.With(logging.String("topic", msg.Topic))
	s.ctx = logging.ContextWithLogger(core.WithSocket(s.ctx, s.socket), s.logger)

	params, session := joinParams(msg.Map("params"))
	if err := component.Mount(s.ctx, params, session); err != nil {
		s.logger.Warn("mount failed", logging.Err(err))
		s.replyError(msg, err)
		return
	}

	html, err := s.render(component)
	if err != nil {
		s.replyError(msg, err)
		return
	}

	s.component = component
	s.hashes = make(slotHashes)

	current := extractSlots(html)
	response := map[string]any{"rendered": diffPayload(0, s.hashes.changed(current), current, html)}
	s.send(protocol.OkReply(msg.JoinRef, msg.Ref, msg.Topic, response))
	s.logger.Debug("view joined", logging.String("component", component.Name()))
}

func (s *liveSession) event(msg *protocol.Message) {
	if s.component == nil || msg.Topic != s.socket.Topic() {
		s.replyError(msg, ErrNotJoined)
		return
	}

	payload := msg.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	if err := s.component.HandleEvent(s.ctx, msg.Event, payload); err != nil {
		s.logger.Debug("event rejected",
			logging.String("event", msg.Event),
			logging.Err(err),
		)
		s.replyError(msg, err)
		return
	}

	s.send(protocol.OkReply(msg.JoinRef, msg.Ref, msg.Topic, nil))
	s.pushDiff()
}

// pushDiff re-renders the view and pushes the slots that changed.
func (s *liveSession) pushDiff() {
	html, err := s.render(s.component)
	if err != nil {
		s.logger.Warn("render failed", logging.Err(err))
		return
	}

	current := extractSlots(html)
	changed := s.hashes.changed(current)
	if changed.empty() && !current.empty() {
		return
	}

	s.version++
	s.send(protocol.Push(s.socket.Topic(), protocol.EventDiff, diffPayload(s.version, changed, current, html)))
}

func (s *liveSession) render(component core.Component) (string, error) {
	renderer := component.Render(s.ctx)
	if renderer == nil {
		return "", ErrNilRenderer
	}

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	if err := renderer.Render(s.ctx, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *liveSession) send(msg *protocol.Message) {
	if err := s.ws.Send(msg); err != nil {
		s.logger.Debug("send failed", logging.String("event", msg.Event), logging.Err(err))
	}
}

func (s *liveSession) replyError(msg *protocol.Message, err error) {
	s.send(protocol.ErrorReply(msg.JoinRef, msg.Ref, msg.Topic, err.Error()))
}

func (s *liveSession) disconnect(reason core.TerminateReason) {
	if s.component != nil {
		if err := s.component.Terminate(s.ctx, reason); err != nil {
			s.logger.Debug("terminate failed", logging.Err(err))
		}
		s.component = nil
	}
	s.router.sockets.Remove(s.socket.ID())
	_ = s.socket.Close()
}

// diffPayload encodes changed slots. Views without any slots are sent
// whole under "f".
func diffPayload(version uint64, changed, current slots, html string) map[string]any {
	payload := map[string]any{"v": version}
	if current.empty() {
		payload["f"] = html
		return payload
	}
	if len(changed.text) > 0 {
		payload["s"] = changed.text
	}
	if len(changed.html) > 0 {
		payload["h"] = changed.html
	}
	return payload
}

// joinParams splits the join params into URL params and the session.
// The "storage" entry carries the browser's storage snapshot.
func joinParams(raw map[string]any) (core.Params, core.Session) {
	params := make(core.Params)
	session := make(core.Session)

	for k, v := range raw {
		if k == core.StorageKey {
			session[core.StorageKey] = stringMap(v)
			continue
		}
		if s, ok := v.(string); ok {
			params[k] = s
		}
	}
	return params, session
}

func stringMap(v any) map[string]string {
	out := make(map[string]string)
	switch m := v.(type) {
	case map[string]any:
		for k, val := range m {
			if s, ok := val.(string); ok {
				out[k] = s
			}
		}
	case map[string]string:
		for k, val := range m {
			out[k] = val
		}
	}
	return out
}
