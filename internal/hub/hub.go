// Package hub is the live hub page: one component per visitor socket that
// owns the gate and the subscription modal for that visitor.
//
// All side effects the visitor should see in the browser are queued as
// client commands while an event is handled and pushed in a single batch
// once it returns.
package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gabrielmiguelok/linkhub/internal/access"
	"github.com/gabrielmiguelok/linkhub/internal/catalog"
	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/feed"
	"github.com/gabrielmiguelok/linkhub/internal/gate"
	"github.com/gabrielmiguelok/linkhub/internal/modal"
	"github.com/gabrielmiguelok/linkhub/internal/website/components"
	"github.com/gabrielmiguelok/linkhub/internal/website/landing"
	"github.com/gabrielmiguelok/linkhub/pkg/core"
	"github.com/gabrielmiguelok/linkhub/pkg/js"
	"github.com/gabrielmiguelok/linkhub/pkg/logging"
)

// Events sent by the live client.
const (
	EventOpen      = "open"
	EventEmail     = "email"
	EventSubscribe = "subscribe"
	EventSkip      = "skip"
	EventAccess    = "access"
	EventCopy      = "copy"
	EventDismiss   = "dismiss"
	EventSelect    = "select"
)

var (
	// ErrUnknownEvent is returned for events the hub does not handle.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrUnknownTool is returned when a selection names no tool.
	ErrUnknownTool = errors.New("unknown tool")
)

// emailInput is the selector focused when the modal opens.
const emailInput = `input[name="email"]`

// Hub is the live component behind the hub page.
type Hub struct {
	core.BaseComponent

	site       *config.Site
	catalog    *catalog.Catalog
	feed       *feed.Service
	subscriber modal.Subscriber
	clock      modal.Clock
	now        func() time.Time
	path       string
	reload     string
	logger     logging.Logger

	store   *access.Store
	gate    *gate.Controller
	machine *modal.Machine
	posts   []feed.Post
	tool    int
	formErr string
	pending js.Commands
}

// Option configures a Hub.
type Option func(*Hub)

// WithFeed sets the service the blog section is loaded from.
func WithFeed(s *feed.Service) Option {
	return func(h *Hub) {
		h.feed = s
	}
}

// WithSubscriber dispatches subscriptions from the server instead of
// asking the browser to submit the form.
func WithSubscriber(s modal.Subscriber) Option {
	return func(h *Hub) {
		h.subscriber = s
	}
}

// WithClock sets the clock behind the copied indicator. Callbacks are
// still delivered through the socket loop.
func WithClock(c modal.Clock) Option {
	return func(h *Hub) {
		h.clock = c
	}
}

// WithNow sets the time source for access records.
func WithNow(now func() time.Time) Option {
	return func(h *Hub) {
		h.now = now
	}
}

// WithPath sets the route the live client joins.
func WithPath(path string) Option {
	return func(h *Hub) {
		h.path = path
	}
}

// WithReload adds the development reload listener for path.
func WithReload(path string) Option {
	return func(h *Hub) {
		h.reload = path
	}
}

// New creates a hub for site.
func New(site *config.Site, opts ...Option) *Hub {
	h := &Hub{
		site:    site,
		catalog: site.Catalog(),
		clock:   systemClock{},
		now:     time.Now,
		path:    "/",
		logger:  logging.NopLogger{},
		tool:    site.DefaultToolIndex(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Factory returns a constructor for router registration.
func Factory(site *config.Site, opts ...Option) func() core.Component {
	return func() core.Component {
		return New(site, opts...)
	}
}

func (h *Hub) Name() string { return "hub" }

// Mount restores the visitor's access flag from the storage snapshot sent
// at join and loads the blog posts. A rejoin starts with the modal closed,
// so the browser is told to release any scroll lock left by the previous
// socket.
func (h *Hub) Mount(ctx context.Context, params core.Params, session core.Session) error {
	h.logger = logging.L(ctx).With(logging.String("component", h.Name()))

	storage := access.NewMirrorStorage(session.Storage(), func(key, value string) error {
		h.queue(js.JS.StorageSet(key, value))
		return nil
	})
	h.store = access.NewStore(storage, access.WithClock(h.now))
	h.gate = gate.NewController(h.site.GatingDisabled(), h.store)

	subscriber := h.subscriber
	if subscriber == nil {
		subscriber = formSubmitter{hub: h, action: landing.FormAction(h.site)}
	}
	h.machine = modal.New(modal.Ports{
		Opener:     modal.OpenerFunc(func(url string) { h.queue(js.JS.Open(url)) }),
		Clipboard:  clientClipboard{hub: h},
		Subscriber: subscriber,
		ScrollLock: scrollLock{hub: h},
		Granter:    h.store,
		Clock:      socketClock{hub: h, base: h.clock},
	}, modal.WithObserver(func(t modal.Transition) {
		h.logger.Debug("modal transition",
			logging.String("from", t.From.String()),
			logging.String("to", t.To.String()),
			logging.String("reason", t.Reason),
		)
	}))

	if h.site.Blog.Enabled {
		h.posts = h.feed.Recent(ctx, h.site.Blog.FeedURL)
	}

	h.queue(js.JS.ScrollLock(false))
	h.flush()
	return nil
}

func (h *Hub) Render(ctx context.Context) core.Renderer {
	page := landing.RenderHub(landing.Options{
		Site:  h.site,
		Mode:  components.Live,
		Posts: h.posts,
		Modal: components.ModalOptions{
			Session: h.machine.Session(),
			Error:   h.formErr,
		},
		Tool:       &h.tool,
		LivePath:   h.path,
		ReloadPath: h.reload,
	})
	return core.RendererFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, page)
		return err
	})
}

func (h *Hub) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	defer h.flush()

	switch event {
	case EventOpen:
		return h.open(stringArg(payload, "id"))
	case EventEmail:
		return h.machine.SetEmail(stringArg(payload, "value"))
	case EventSubscribe:
		return h.subscribe(payload)
	case EventSkip:
		return h.machine.Skip()
	case EventAccess:
		return h.machine.AccessResource()
	case EventCopy:
		return h.machine.CopyLink()
	case EventDismiss:
		h.formErr = ""
		return h.machine.Dismiss(dismissReason(stringArg(payload, "reason")))
	case EventSelect:
		return h.selectTool(payload["index"])
	}
	return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
}

// HandleInfo runs timer callbacks scheduled by the modal.
func (h *Hub) HandleInfo(ctx context.Context, msg any) error {
	defer h.flush()

	if fn, ok := msg.(callback); ok {
		fn()
	}
	return nil
}

// Terminate closes any open modal so pending timers are stopped.
func (h *Hub) Terminate(ctx context.Context, reason core.TerminateReason) error {
	if h.machine != nil {
		_ = h.machine.Dismiss(modal.DismissClose)
	}
	h.pending = nil
	return nil
}

// Session returns the modal snapshot.
func (h *Hub) Session() modal.Session {
	return h.machine.Session()
}

// SelectedTool returns the index of the tool in the detail pane.
func (h *Hub) SelectedTool() int {
	return h.tool
}

// HasAccess reports whether the visitor has passed the gate.
func (h *Hub) HasAccess() bool {
	return h.store.HasAccess()
}

func (h *Hub) open(id string) error {
	res, err := h.catalog.Find(id)
	if err != nil {
		return fmt.Errorf("%w: %s", err, id)
	}
	action, err := h.gate.RequestOpen(res)
	if err != nil {
		return err
	}

	h.logger.Debug("gate decision",
		logging.String("resource", res.ID),
		logging.String("action", action.Kind.String()),
	)

	switch action.Kind {
	case gate.OpenDirectly:
		h.queue(js.JS.Open(action.Link()))
		return nil
	default:
		h.formErr = ""
		if err := h.machine.Open(action.Resource); err != nil {
			return err
		}
		h.queue(js.JS.Focus(emailInput))
		return nil
	}
}

func (h *Hub) subscribe(payload map[string]any) error {
	if email, ok := payload["email"].(string); ok {
		if err := h.machine.SetEmail(email); err != nil {
			return err
		}
	}

	err := h.machine.Submit()
	if errors.Is(err, modal.ErrInvalidEmail) {
		h.formErr = "Please enter a valid email address."
		return nil
	}
	if err == nil {
		h.formErr = ""
	}
	return err
}

func (h *Hub) selectTool(raw any) error {
	index := -1
	switch v := raw.(type) {
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			index = n
		}
	case float64:
		if v == float64(int(v)) {
			index = int(v)
		}
	}
	if index < 0 || index >= len(h.site.Tools) {
		return fmt.Errorf("%w: %v", ErrUnknownTool, raw)
	}
	h.tool = index
	return nil
}

func (h *Hub) queue(cmd js.Command) {
	h.pending = append(h.pending, cmd)
}

// flush pushes queued commands to the browser. Commands queued while no
// socket is attached are dropped.
func (h *Hub) flush() {
	if len(h.pending) == 0 {
		return
	}
	cmds := h.pending
	h.pending = nil

	socket := h.Socket()
	if socket == nil {
		return
	}
	if err := socket.Push(js.Event, cmds.Payload()); err != nil {
		h.logger.Debug("command push failed", logging.Err(err))
	}
}

func stringArg(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

func dismissReason(raw string) modal.DismissReason {
	switch r := modal.DismissReason(raw); r {
	case modal.DismissEscape, modal.DismissBackdrop:
		return r
	default:
		return modal.DismissClose
	}
}
