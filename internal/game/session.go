package game

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	outputBuffer = 32
	maxLineBytes = 4096
)

// Session owns one client connection: it reads protocol lines, tracks the
// authentication state machine and pumps queued output back to the stream.
// A session is exclusively driven by its connection goroutine; the output
// channel is the only way other tasks reach it.
type Session struct {
	conn   io.ReadWriteCloser
	reader *bufio.Reader
	remote string

	out    chan string
	closed chan struct{}

	mu            sync.Mutex
	player        *Player
	authenticated bool
	lastCommand   time.Time
	closeOnce     sync.Once
	pumpOnce      sync.Once
}

// NewSession wraps an accepted connection. The caller must invoke
// StartOutput before queueing any lines.
func NewSession(conn io.ReadWriteCloser, remote string) *Session {
	return &Session{
		conn:   conn,
		reader: bufio.NewReader(conn),
		remote: remote,
		out:    make(chan string, outputBuffer),
		closed: make(chan struct{}),
	}
}

// Remote identifies the peer for logging.
func (s *Session) Remote() string { return s.remote }

// StartOutput launches the writer pump. One slow client only ever stalls its
// own pump; senders enqueue without blocking.
func (s *Session) StartOutput() {
	s.pumpOnce.Do(func() {
		go func() {
			for {
				select {
				case line := <-s.out:
					if _, err := io.WriteString(s.conn, line+"\n"); err != nil {
						return
					}
				case <-s.closed:
					return
				}
			}
		}()
	})
}

// ReadLine blocks for the next input line, tolerating both \n and \r\n
// endings. Oversized lines are rejected to keep a hostile client from
// growing the buffer without bound.
func (s *Session) ReadLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	if len(line) > maxLineBytes {
		return "", io.ErrShortBuffer
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Queue enqueues a raw protocol line without blocking. It reports false when
// the session buffer is full or the session is closed; callers treat that as
// a skipped best-effort delivery.
func (s *Session) Queue(line string) bool {
	select {
	case <-s.closed:
		return false
	default:
	}
	select {
	case s.out <- line:
		return true
	default:
		return false
	}
}

// Send formats and enqueues one tagged line.
func (s *Session) Send(tag Tag, payload string) bool {
	return s.Queue(FormatLine(tag, payload))
}

// SendJSON formats and enqueues a structured ITEM or QUEST line.
func (s *Session) SendJSON(tag Tag, v any) bool {
	line, err := FormatJSONLine(tag, v)
	if err != nil {
		return false
	}
	return s.Queue(line)
}

// Authenticated reports whether LOGIN has succeeded on this session.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Player returns the bound player, nil before login.
func (s *Session) Player() *Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// BindPlayer transitions Unauthenticated -> Authenticated.
func (s *Session) BindPlayer(p *Player) {
	s.mu.Lock()
	s.player = p
	s.authenticated = true
	s.mu.Unlock()
}

// Throttle enforces the flat inter-command delay. A rejected command does
// not re-arm the timer, so the client regains service once the original
// window elapses.
func (s *Session) Throttle(now time.Time, delay time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.lastCommand) < delay {
		return false
	}
	s.lastCommand = now
	return true
}

// Close tears the connection down. Safe to call from any goroutine and
// idempotent; the session loop's deferred cleanup observes Closed.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		_ = s.conn.Close()
	})
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}
