package router

import (
	"github.com/gabrielmiguelok/linkhub/pkg/core"
	"github.com/gabrielmiguelok/linkhub/pkg/protocol"
	"github.com/gabrielmiguelok/linkhub/pkg/transport"
)

// transportAdapter lets a core.Socket push through a websocket transport.
type transportAdapter struct {
	ws transport.Transport
}

func (a transportAdapter) Send(msg core.Message) error {
	return a.ws.Send(protocol.Push(msg.Topic, msg.Event, msg.Payload))
}

func (a transportAdapter) Close() error {
	return a.ws.Close()
}
