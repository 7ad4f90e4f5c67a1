package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielmiguelok/linkhub/internal/access"
	"github.com/gabrielmiguelok/linkhub/internal/catalog"
	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/gate"
	"github.com/gabrielmiguelok/linkhub/internal/modal"
	"github.com/gabrielmiguelok/linkhub/pkg/core"
	"github.com/gabrielmiguelok/linkhub/pkg/js"
)

type recordingTransport struct {
	mu       sync.Mutex
	messages []core.Message
}

func (t *recordingTransport) Send(msg core.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	return nil
}

func (t *recordingTransport) Close() error { return nil }

// commands returns every command pushed so far and forgets them.
func (t *recordingTransport) commands() []map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []map[string]any
	for _, m := range t.messages {
		if m.Event != js.Event {
			continue
		}
		for _, c := range m.Payload["cmds"].([]any) {
			out = append(out, c.(map[string]any))
		}
	}
	t.messages = nil
	return out
}

func ops(cmds []map[string]any) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c["op"].(string)
	}
	return out
}

func find(cmds []map[string]any, op string) map[string]any {
	for _, c := range cmds {
		if c["op"] == op {
			return c["args"].(map[string]any)
		}
	}
	return nil
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type manualClock struct {
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) modal.Timer {
	t := &manualTimer{fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) fireAll() {
	for _, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

func testSite(gated bool) *config.Site {
	site := config.Default()
	site.Features.SubscribeModal = gated
	site.Blog.SubscribeURL = "https://news.example.com"
	site.Resources = []config.Resource{
		{ID: "dir", Title: "Design Directory", Badge: "live", Link: "https://example.com/dir"},
		{ID: "ds", Title: "Design System", Badge: "coming-soon", Link: "#"},
	}
	return site
}

type harness struct {
	hub       *Hub
	transport *recordingTransport
	socket    *core.Socket
	clock     *manualClock
	// joinCmds holds the commands pushed while mounting.
	joinCmds []map[string]any
}

func mount(t *testing.T, site *config.Site, storage map[string]string, opts ...Option) *harness {
	t.Helper()

	transport := &recordingTransport{}
	socket := core.NewSocket("s1", transport)
	socket.SetTopic("lv:/")
	t.Cleanup(func() { _ = socket.Close() })

	clock := &manualClock{}
	opts = append([]Option{
		WithClock(clock),
		WithNow(func() time.Time { return time.UnixMilli(1_700_000_000_000) }),
	}, opts...)

	h := New(site, opts...)
	h.SetSocket(socket)

	session := core.Session{core.StorageKey: storage}
	require.NoError(t, h.Mount(context.Background(), core.Params{}, session))
	return &harness{
		hub:       h,
		transport: transport,
		socket:    socket,
		clock:     clock,
		joinCmds:  transport.commands(),
	}
}

func (h *harness) event(t *testing.T, event string, payload map[string]any) {
	t.Helper()
	require.NoError(t, h.hub.HandleEvent(context.Background(), event, payload))
}

func (h *harness) render(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, h.hub.Render(context.Background()).Render(context.Background(), &buf))
	return buf.String()
}

func storedRecord(t *testing.T, cmds []map[string]any) map[string]any {
	t.Helper()
	args := find(cmds, js.OpStorageSet)
	require.NotNil(t, args, "no storage_set in %v", ops(cmds))
	assert.Equal(t, access.StorageKey, args["key"])

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(args["value"].(string)), &rec))
	return rec
}

func TestHub_GatingDisabledOpensDirectly(t *testing.T) {
	h := mount(t, testSite(false), nil)

	h.event(t, EventOpen, map[string]any{"id": "dir"})

	cmds := h.transport.commands()
	assert.Equal(t, []string{js.OpOpen}, ops(cmds))
	args := find(cmds, js.OpOpen)
	assert.Equal(t, "https://example.com/dir", args["url"])
	assert.Equal(t, "noopener,noreferrer", args["features"])
	assert.Equal(t, modal.Closed, h.hub.Session().Phase)
	assert.False(t, h.hub.HasAccess())
}

func TestHub_SkipGrantsAndOpens(t *testing.T) {
	h := mount(t, testSite(true), nil)

	h.event(t, EventOpen, map[string]any{"id": "dir"})
	assert.Equal(t, []string{js.OpScrollLock, js.OpFocus}, ops(h.transport.commands()))
	assert.Equal(t, modal.Collecting, h.hub.Session().Phase)
	assert.Contains(t, h.render(t), "Design Directory</strong>")

	h.event(t, EventSkip, nil)
	cmds := h.transport.commands()
	assert.Equal(t, []string{js.OpStorageSet, js.OpOpen, js.OpScrollLock}, ops(cmds))
	assert.Equal(t, "skip", storedRecord(t, cmds)["method"])
	assert.Equal(t, false, find(cmds, js.OpScrollLock)["locked"])
	assert.Equal(t, modal.Closed, h.hub.Session().Phase)
	assert.True(t, h.hub.HasAccess())

	h.event(t, EventOpen, map[string]any{"id": "dir"})
	assert.Equal(t, []string{js.OpOpen}, ops(h.transport.commands()))
}

func TestHub_SubscribeThenAccess(t *testing.T) {
	h := mount(t, testSite(true), nil)
	h.event(t, EventOpen, map[string]any{"id": "dir"})
	h.transport.commands()

	h.event(t, EventEmail, map[string]any{"value": "visitor@example.com"})
	h.event(t, EventSubscribe, nil)

	cmds := h.transport.commands()
	assert.Equal(t, []string{js.OpSubmitForm, js.OpStorageSet}, ops(cmds))
	submit := find(cmds, js.OpSubmitForm)
	assert.Equal(t, "https://news.example.com/api/v1/free?nojs=true", submit["action"])
	assert.Equal(t, map[string]any{"email": "visitor@example.com"}, submit["fields"])

	rec := storedRecord(t, cmds)
	assert.Equal(t, true, rec["accessed"])
	assert.Equal(t, "subscribe", rec["method"])
	assert.EqualValues(t, 1_700_000_000_000, rec["timestamp"])

	assert.Equal(t, modal.Confirmed, h.hub.Session().Phase)
	assert.Contains(t, h.render(t), "Access Design Directory")

	h.event(t, EventAccess, nil)
	assert.Equal(t, []string{js.OpOpen, js.OpScrollLock}, ops(h.transport.commands()))
	assert.Equal(t, modal.Closed, h.hub.Session().Phase)
}

func TestHub_DismissLeavesNoAccess(t *testing.T) {
	for _, reason := range []string{"close", "escape", "backdrop"} {
		t.Run(reason, func(t *testing.T) {
			h := mount(t, testSite(true), nil)
			h.event(t, EventOpen, map[string]any{"id": "dir"})
			h.event(t, EventEmail, map[string]any{"value": "typed@example.com"})
			h.transport.commands()

			h.event(t, EventDismiss, map[string]any{"reason": reason})
			cmds := h.transport.commands()
			assert.Nil(t, find(cmds, js.OpStorageSet))
			assert.Nil(t, find(cmds, js.OpOpen))
			assert.False(t, h.hub.HasAccess())

			h.event(t, EventOpen, map[string]any{"id": "dir"})
			assert.Equal(t, modal.Collecting, h.hub.Session().Phase)
			assert.Empty(t, h.hub.Session().Email)
		})
	}
}

func TestHub_ReturningVisitorOpensDirectly(t *testing.T) {
	stored := map[string]string{
		access.StorageKey: `{"accessed":true,"method":"subscribe","timestamp":1700000000000}`,
	}
	h := mount(t, testSite(true), stored)

	h.event(t, EventOpen, map[string]any{"id": "dir"})
	assert.Equal(t, []string{js.OpOpen}, ops(h.transport.commands()))
	assert.Equal(t, modal.Closed, h.hub.Session().Phase)
}

func TestHub_JoinReleasesScrollLock(t *testing.T) {
	h := mount(t, testSite(true), nil)

	assert.Equal(t, []string{js.OpScrollLock}, ops(h.joinCmds))
	assert.Equal(t, false, find(h.joinCmds, js.OpScrollLock)["locked"])
}

func TestHub_RejoinAfterDropWithOpenModalUnlocks(t *testing.T) {
	site := testSite(true)
	first := mount(t, site, nil)
	first.event(t, EventOpen, map[string]any{"id": "dir"})
	assert.Equal(t, true, find(first.transport.commands(), js.OpScrollLock)["locked"])

	require.NoError(t, first.hub.Terminate(context.Background(), core.TerminateNormal))
	assert.Empty(t, first.transport.commands(), "terminate pushes nothing")

	second := mount(t, site, nil)
	assert.Equal(t, false, find(second.joinCmds, js.OpScrollLock)["locked"])
	assert.Equal(t, modal.Closed, second.hub.Session().Phase)
}

func TestHub_CorruptStorageShowsModal(t *testing.T) {
	h := mount(t, testSite(true), map[string]string{access.StorageKey: "garbage"})

	h.event(t, EventOpen, map[string]any{"id": "dir"})
	assert.Equal(t, modal.Collecting, h.hub.Session().Phase)
}

func TestHub_ComingSoonAndUnknownRejected(t *testing.T) {
	h := mount(t, testSite(true), nil)

	err := h.hub.HandleEvent(context.Background(), EventOpen, map[string]any{"id": "ds"})
	assert.ErrorIs(t, err, gate.ErrResourceNotLive)

	err = h.hub.HandleEvent(context.Background(), EventOpen, map[string]any{"id": "missing"})
	assert.ErrorIs(t, err, catalog.ErrResourceNotFound)

	err = h.hub.HandleEvent(context.Background(), "bogus", nil)
	assert.ErrorIs(t, err, ErrUnknownEvent)

	assert.Empty(t, h.transport.commands())
	assert.Equal(t, modal.Closed, h.hub.Session().Phase)
}

func TestHub_InvalidEmailStaysCollecting(t *testing.T) {
	h := mount(t, testSite(true), nil)
	h.event(t, EventOpen, map[string]any{"id": "dir"})
	h.transport.commands()

	h.event(t, EventSubscribe, map[string]any{"email": "not-an-email"})

	assert.Empty(t, h.transport.commands())
	assert.Equal(t, modal.Collecting, h.hub.Session().Phase)
	assert.Contains(t, h.render(t), "Please enter a valid email address.")
	assert.False(t, h.hub.HasAccess())
}

func TestHub_CopiedIndicatorRevertsThroughSocketLoop(t *testing.T) {
	h := mount(t, testSite(true), nil)
	h.event(t, EventOpen, map[string]any{"id": "dir"})
	h.event(t, EventSubscribe, map[string]any{"email": "visitor@example.com"})
	h.transport.commands()

	h.event(t, EventCopy, nil)
	cmds := h.transport.commands()
	assert.Equal(t, "https://example.com/dir", find(cmds, js.OpCopy)["text"])
	assert.True(t, h.hub.Session().Copied)
	assert.Contains(t, h.render(t), "Link copied!")

	h.clock.fireAll()
	select {
	case msg := <-h.socket.Info():
		require.NoError(t, h.hub.HandleInfo(context.Background(), msg))
	case <-time.After(time.Second):
		t.Fatal("timer callback was not routed to the socket")
	}
	assert.False(t, h.hub.Session().Copied)
	assert.Equal(t, modal.Confirmed, h.hub.Session().Phase)
}

func TestHub_StaleCopyRevertKeepsNewSessionIndicator(t *testing.T) {
	h := mount(t, testSite(true), nil)
	h.event(t, EventOpen, map[string]any{"id": "dir"})
	h.event(t, EventSubscribe, map[string]any{"email": "visitor@example.com"})
	h.event(t, EventCopy, nil)

	// The revert fires and is queued on the socket before the visitor closes.
	h.clock.fireAll()
	h.event(t, EventDismiss, map[string]any{"reason": "close"})

	h.event(t, EventOpen, map[string]any{"id": "dir"})
	h.event(t, EventSubscribe, map[string]any{"email": "visitor@example.com"})
	h.event(t, EventCopy, nil)
	require.True(t, h.hub.Session().Copied)

	select {
	case msg := <-h.socket.Info():
		require.NoError(t, h.hub.HandleInfo(context.Background(), msg))
	case <-time.After(time.Second):
		t.Fatal("timer callback was not routed to the socket")
	}
	assert.True(t, h.hub.Session().Copied, "revert from the closed session is ignored")
}

func TestHub_ServerSideSubscriber(t *testing.T) {
	var emails []string
	h := mount(t, testSite(true), nil, WithSubscriber(modal.SubscriberFunc(func(email string) {
		emails = append(emails, email)
	})))
	h.event(t, EventOpen, map[string]any{"id": "dir"})
	h.transport.commands()

	h.event(t, EventSubscribe, map[string]any{"email": "visitor@example.com"})

	assert.Equal(t, []string{"visitor@example.com"}, emails)
	assert.Nil(t, find(h.transport.commands(), js.OpSubmitForm))
}

func TestHub_SelectTool(t *testing.T) {
	site := testSite(false)
	h := mount(t, site, nil)
	require.Equal(t, "obsidian", site.Tools[h.hub.SelectedTool()].ID)
	assert.Contains(t, h.render(t), `aria-activedescendant="tool-option-obsidian"`)

	h.event(t, EventSelect, map[string]any{"index": "0"})
	assert.Zero(t, h.hub.SelectedTool())
	assert.Contains(t, h.render(t), `<div data-slot="tool"><div class="tool-detail" data-tool-detail="0">`)

	h.event(t, EventSelect, map[string]any{"index": float64(len(site.Tools) - 1)})
	assert.Equal(t, len(site.Tools)-1, h.hub.SelectedTool())
	assert.Empty(t, h.transport.commands(), "selection only changes the slot")
}

func TestHub_SelectToolRejectsBadIndex(t *testing.T) {
	h := mount(t, testSite(false), nil)
	before := h.hub.SelectedTool()

	for _, raw := range []any{"-1", "99", "two", 1.5, nil} {
		err := h.hub.HandleEvent(context.Background(), EventSelect, map[string]any{"index": raw})
		assert.ErrorIs(t, err, ErrUnknownTool, "%v", raw)
	}
	assert.Equal(t, before, h.hub.SelectedTool())
}

func TestHub_RenderWithoutSocket(t *testing.T) {
	h := New(testSite(true))
	require.NoError(t, h.Mount(context.Background(), core.Params{}, core.Session{}))

	var buf bytes.Buffer
	require.NoError(t, h.Render(context.Background()).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `data-live-view="/"`)
	assert.Contains(t, buf.String(), `<div data-slot="modal"></div>`)
}
