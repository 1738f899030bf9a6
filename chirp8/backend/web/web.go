// Package web exposes the emulator over HTTP: the framebuffer is pushed
// to a websocket client as packed 1bpp frames and key events come back
// as small JSON messages. Useful for driving the machine from a browser
// canvas without any native windowing stack.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mkaric/go-chirp8/chirp8/backend"
	"github.com/mkaric/go-chirp8/chirp8/input/action"
	"github.com/mkaric/go-chirp8/chirp8/input/event"
	"github.com/mkaric/go-chirp8/chirp8/video"
)

var upgrader = websocket.Upgrader{
	// The emulator is meant to run on localhost; remote origins are the
	// operator's responsibility.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// message is the client-to-server wire format.
type message struct {
	Type string `json:"type"` // "press", "release", "pause", "restart", "quit"
	Key  byte   `json:"key"`  // hex key value for press/release
}

// Backend implements the backend interface over a websocket connection.
// One display client at a time; a new connection replaces the old one.
type Backend struct {
	addr   string
	config backend.Config
	srv    *http.Server

	mu   sync.RWMutex
	conn *websocket.Conn

	events chan backend.InputEvent
}

// New creates a web backend listening on the given address, e.g. ":9999".
func New(addr string) *Backend {
	return &Backend{
		addr:   addr,
		events: make(chan backend.InputEvent, 64),
	}
}

func (b *Backend) Init(config backend.Config) error {
	b.config = config

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s: connect a websocket client to /display\n", config.Title)
	})
	mux.HandleFunc("/display", b.handleDisplay)

	b.srv = &http.Server{Addr: b.addr, Handler: mux}

	go func() {
		slog.Info("web backend listening", "addr", b.addr)
		if err := b.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("web backend server failed", "error", err)
			b.events <- backend.InputEvent{Action: action.Quit, Type: event.Press}
		}
	}()

	return nil
}

// Update pushes the frame to the connected client and drains queued key
// events.
func (b *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	if frame.ConsumeDirty() || b.config.ForceRedraw {
		b.pushFrame(frame)
	}

	var events []backend.InputEvent
	for {
		select {
		case ev := <-b.events:
			events = append(events, ev)
		default:
			return events, nil
		}
	}
}

func (b *Backend) Cleanup() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return b.srv.Shutdown(ctx)
}

func (b *Backend) handleDisplay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	slog.Info("display client connected", "remote", r.RemoteAddr)
	b.setConn(conn)
	defer func() {
		b.dropConn(conn)
		conn.Close()
		slog.Info("display client disconnected", "remote", r.RemoteAddr)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("ignoring malformed message", "error", err)
			continue
		}
		b.handleMessage(msg)
	}
}

func (b *Backend) handleMessage(msg message) {
	var ev backend.InputEvent
	switch msg.Type {
	case "press":
		ev = backend.InputEvent{Action: action.Keypad(msg.Key), Type: event.Press}
	case "release":
		ev = backend.InputEvent{Action: action.Keypad(msg.Key), Type: event.Release}
	case "pause":
		ev = backend.InputEvent{Action: action.PauseToggle, Type: event.Press}
	case "restart":
		ev = backend.InputEvent{Action: action.Restart, Type: event.Press}
	case "quit":
		ev = backend.InputEvent{Action: action.Quit, Type: event.Press}
	default:
		return
	}

	select {
	case b.events <- ev:
	default:
		// queue full, drop the event rather than stall the reader
	}
}

func (b *Backend) setConn(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		b.conn.Close()
	}
	b.conn = conn
}

func (b *Backend) dropConn(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == conn {
		b.conn = nil
	}
}

func (b *Backend) pushFrame(frame *video.FrameBuffer) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.conn == nil {
		return
	}
	if err := b.conn.WriteMessage(websocket.BinaryMessage, frame.Pack()); err != nil {
		slog.Warn("failed to push frame", "error", err)
	}
}
