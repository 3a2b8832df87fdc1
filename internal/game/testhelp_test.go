package game

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeConn satisfies io.ReadWriteCloser for sessions that never touch the
// network. Reads feed from a fixed script; writes are discarded because tests
// inspect the session's output queue directly.
type fakeConn struct {
	reader *strings.Reader
	closed bool
}

func newFakeConn(script string) *fakeConn {
	return &fakeConn{reader: strings.NewReader(script)}
}

func (c *fakeConn) Read(p []byte) (int, error) {
	if c.closed {
		return 0, io.EOF
	}
	return c.reader.Read(p)
}

func (c *fakeConn) Write(p []byte) (int, error) { return len(p), nil }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func newTestSession(script string) *Session {
	return NewSession(newFakeConn(script), "test")
}

// drainOutput empties a session's queued lines without blocking.
func drainOutput(s *Session) []string {
	var out []string
	for {
		select {
		case line := <-s.out:
			out = append(out, line)
		default:
			return out
		}
	}
}

func newTestWorld() *World {
	rooms := map[string]*RoomDef{
		"dock": {
			ID:    "dock",
			Title: "The Dock",
			Desc:  "planks over grey water",
			Exits: map[string]string{"N": "market"},
		},
		"market": {
			ID:    "market",
			Title: "Market Square",
			Desc:  "crowded stalls",
			Exits: map[string]string{"S": "dock"},
		},
	}
	return NewWorldWithRooms(rooms, "dock")
}

// addTestPlayer registers a fresh player with an attached session.
func addTestPlayer(t *testing.T, registry *Registry, name, room string) *Player {
	t.Helper()
	p := NewPlayer(name, room)
	p.Session = newTestSession("")
	if err := registry.Login(p); err != nil {
		t.Fatalf("login %s: %v", name, err)
	}
	return p
}

func testRouter(registry *Registry, channels *ChannelTable, cooldown time.Duration) *Router {
	return NewRouter(registry, channels, NewHistory(100), NewLimiter(cooldown), discardLogger(), 500)
}
