package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gorilla/websocket"
	"github.com/muurk/weathersync/internal/logging"
	"github.com/muurk/weathersync/internal/protocol"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Default buffer depths
	DefaultInboxSize  = 16
	DefaultOutboxSize = 8

	// Default redial backoff bounds
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 30 * time.Second
)

var (
	// ErrOutboxFull is returned by Send when no outbound slot is free.
	ErrOutboxFull = errors.New("transport: outbox full")

	// ErrNotConnected is returned by Send while the link is down.
	ErrNotConnected = errors.New("transport: not connected")
)

// Handler receives link events. Both methods are called from the link's
// single dispatcher goroutine, never concurrently.
type Handler interface {
	OnConnect()
	OnMessage(protocol.Dictionary)
}

// Options configures a Link. Zero values select the defaults.
type Options struct {
	URL     string
	Handler Handler

	InboxSize  int // Inbound dictionaries buffered for the dispatcher
	OutboxSize int // Encoded dictionaries buffered for the writer

	MaxInbound  int // Largest accepted inbound dictionary in bytes
	MaxOutbound int // Largest accepted outbound dictionary in bytes

	InitialInterval time.Duration // First redial delay
	MaxInterval     time.Duration // Redial delay cap

	Dialer *websocket.Dialer
	Header http.Header // Extra handshake headers, e.g. User-Agent

	Capture *Capture // Optional JSON Lines log of every message

	// OnStatus, if set, is called from the link goroutine when a
	// connection comes up or goes down. It must not block for long.
	OnStatus func(connected bool)
}

// HandlerFuncs adapts a pair of functions to a Handler. Nil fields are skipped.
type HandlerFuncs struct {
	Connect func()
	Message func(protocol.Dictionary)
}

// OnConnect calls h.Connect.
func (h HandlerFuncs) OnConnect() {
	if h.Connect != nil {
		h.Connect()
	}
}

// OnMessage calls h.Message.
func (h HandlerFuncs) OnMessage(d protocol.Dictionary) {
	if h.Message != nil {
		h.Message(d)
	}
}

// event is one dispatcher work item: a connect notice, an inbound message
// or a posted function.
type event struct {
	connect bool
	dict    protocol.Dictionary
	fn      func()
}

// outbound is an encoded dictionary waiting for the writer.
type outbound struct {
	data    []byte
	dict    protocol.Dictionary
	session uint64 // session that accepted it; writers skip other sessions
}

// Link is an asynchronous, bounded, reconnecting WebSocket channel to the
// companion. One encoded dictionary travels per binary WebSocket message.
type Link struct {
	opts Options

	inbox  chan event
	outbox chan outbound

	connected      atomic.Bool
	sessionID      atomic.Uint64
	droppedInbound atomic.Uint64
	sent           atomic.Uint64
	received       atomic.Uint64
}

// New creates a Link. Call Run to connect.
func New(opts Options) *Link {
	if opts.InboxSize <= 0 {
		opts.InboxSize = DefaultInboxSize
	}
	if opts.OutboxSize <= 0 {
		opts.OutboxSize = DefaultOutboxSize
	}
	if opts.MaxInbound <= 0 {
		opts.MaxInbound = protocol.DefaultMaxInboundSize
	}
	if opts.MaxOutbound <= 0 {
		opts.MaxOutbound = protocol.DefaultMaxOutboundSize
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = DefaultInitialInterval
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = DefaultMaxInterval
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}

	return &Link{
		opts:   opts,
		inbox:  make(chan event, opts.InboxSize),
		outbox: make(chan outbound, opts.OutboxSize),
	}
}

// Connected reports whether a companion connection is currently up.
func (l *Link) Connected() bool {
	return l.connected.Load()
}

// DroppedInbound returns how many inbound messages were dropped because the
// inbox was full.
func (l *Link) DroppedInbound() uint64 {
	return l.droppedInbound.Load()
}

// Sent returns how many dictionaries were written to the companion.
func (l *Link) Sent() uint64 {
	return l.sent.Load()
}

// Received returns how many dictionaries were queued for the dispatcher.
func (l *Link) Received() uint64 {
	return l.received.Load()
}

// Send encodes d and offers it to the outbox without blocking.
func (l *Link) Send(d protocol.Dictionary) error {
	// Load the session before the flag: a send racing a reconnect is tagged
	// with the old session and skipped, never delivered on the new one.
	session := l.sessionID.Load()
	if !l.connected.Load() {
		return ErrNotConnected
	}

	data, err := protocol.EncodeDictionaryLimit(d, l.opts.MaxOutbound)
	if err != nil {
		return fmt.Errorf("encode outbound dictionary: %w", err)
	}

	select {
	case l.outbox <- outbound{data: data, dict: d, session: session}:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Post runs fn on the dispatcher goroutine, serialized with Handler calls.
// It reports false when the inbox is full and fn was not queued.
func (l *Link) Post(fn func()) bool {
	select {
	case l.inbox <- event{fn: fn}:
		return true
	default:
		return false
	}
}

// Run dials the companion and keeps the link up until ctx is cancelled,
// redialing with exponential backoff. It always returns a non-nil error,
// ctx.Err() on a normal shutdown.
func (l *Link) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.dispatch(ctx)
	}()
	defer wg.Wait()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.opts.InitialInterval
	b.MaxInterval = l.opts.MaxInterval
	b.MaxElapsedTime = 0 // never give up

	for {
		var conn *websocket.Conn
		dial := func() error {
			c, err := l.dial(ctx)
			if err != nil {
				return err
			}
			conn = c
			return nil
		}
		notify := func(err error, next time.Duration) {
			logging.Warn("Companion dial failed, retrying",
				zap.String("url", l.opts.URL),
				zap.Duration("retry_in", next),
				zap.Error(err),
			)
		}

		if err := backoff.RetryNotify(dial, backoff.WithContext(b, ctx), notify); err != nil || conn == nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("dial companion: %w", err)
		}

		l.session(ctx, conn)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Pause before redialing so a companion that drops every
		// connection immediately is not hammered.
		timer := time.NewTimer(l.opts.InitialInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Link) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := l.opts.Dialer.DialContext(ctx, l.opts.URL, l.opts.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, err
	}
	return conn, nil
}

// session runs one connection until it fails or ctx is cancelled.
func (l *Link) session(ctx context.Context, conn *websocket.Conn) {
	logging.LogConnection(l.opts.URL, "connected")

	sessionCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	conn.SetReadLimit(int64(l.opts.MaxInbound))
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	id := l.sessionID.Add(1)
	l.setConnected(true)
	if !l.enqueue(ctx, event{connect: true}) {
		l.setConnected(false)
		cancel()
		_ = conn.Close()
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		l.writeLoop(sessionCtx, conn, id)
	}()

	// Unblock the reader on shutdown or writer failure
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-sessionCtx.Done()
		_ = conn.Close()
	}()

	err := l.readLoop(conn)
	l.setConnected(false)
	cancel()
	wg.Wait()
	l.drainOutbox()

	if ctx.Err() != nil {
		logging.LogConnection(l.opts.URL, "closed")
		return
	}
	logging.Info("Companion connection lost",
		zap.String("url", l.opts.URL),
		zap.Error(err),
	)
}

// readLoop decodes inbound binary messages and offers them to the inbox.
func (l *Link) readLoop(conn *websocket.Conn) error {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		if messageType != websocket.BinaryMessage {
			logging.Debug("Ignoring non-binary WebSocket message",
				zap.Int("type", messageType),
				zap.Int("length", len(data)),
			)
			continue
		}
		l.opts.Capture.Record(l.opts.URL, "received", data)

		d, err := protocol.DecodeDictionary(data)
		if err != nil {
			logging.Warn("Discarding undecodable dictionary",
				zap.Int("length", len(data)),
				zap.Error(err),
			)
			logging.LogRawBytes("Undecodable dictionary", data)
			continue
		}
		logging.LogMessage("received", d.Keys(), d.String(), data)

		select {
		case l.inbox <- event{dict: d}:
			l.received.Add(1)
		default:
			l.droppedInbound.Add(1)
			logging.Warn("Inbox full, dropping inbound message",
				zap.Uint32s("keys", d.Keys()),
			)
		}
	}
}

// writeLoop drains the outbox and keeps the connection alive with pings.
func (l *Link) writeLoop(ctx context.Context, conn *websocket.Conn, session uint64) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(writeWait)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return

		case msg := <-l.outbox:
			if msg.session != session {
				logging.Debug("Skipping request queued for an earlier connection",
					zap.String("message", msg.dict.String()),
				)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, msg.data); err != nil {
				logging.Error("Failed to write to companion",
					zap.String("url", l.opts.URL),
					zap.Error(err),
				)
				_ = conn.Close()
				return
			}
			l.sent.Add(1)
			l.opts.Capture.Record(l.opts.URL, "sent", msg.data)
			logging.LogMessage("sent", msg.dict.Keys(), msg.dict.String(), msg.data)

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (l *Link) setConnected(up bool) {
	l.connected.Store(up)
	if l.opts.OnStatus != nil {
		l.opts.OnStatus(up)
	}
}

// drainOutbox discards requests queued for a connection that is gone.
func (l *Link) drainOutbox() {
	for {
		select {
		case <-l.outbox:
		default:
			return
		}
	}
}

// enqueue delivers a must-not-drop event, waiting for inbox space.
func (l *Link) enqueue(ctx context.Context, ev event) bool {
	select {
	case l.inbox <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// dispatch is the single goroutine that calls the Handler.
func (l *Link) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-l.inbox:
			if ev.fn != nil {
				ev.fn()
				continue
			}
			if l.opts.Handler == nil {
				continue
			}
			if ev.connect {
				l.opts.Handler.OnConnect()
			} else {
				l.opts.Handler.OnMessage(ev.dict)
			}
		}
	}
}
