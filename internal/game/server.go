package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Dispatcher executes one command line for a session. Returning true asks the
// connection loop to terminate.
type Dispatcher func(*Server, *Session, string) bool

const (
	welcomeBanner = "Welcome to the Terminal Echo. LOGIN <name> to begin."
	farewellLine  = "The teletype falls silent. Goodbye."
)

// Server owns every shared subsystem and runs the accept and tick loops.
// Sessions are handled one goroutine each; all cross-session state lives in
// the registry, channel table and router, each with its own locking.
type Server struct {
	cfg        Config
	world      *World
	registry   *Registry
	channels   *ChannelTable
	history    *History
	chatLimit  *Limiter
	fightLimit *Limiter
	skillLimit *Limiter
	router     *Router
	store      *Store
	boards     *BoardSystem
	mail       *MailSystem
	dispatcher Dispatcher
	log        *slog.Logger
	startedAt  time.Time
}

// NewServer wires the subsystems together. The dispatcher is supplied by the
// command package so the two packages stay acyclic.
func NewServer(cfg Config, world *World, dispatcher Dispatcher, log *slog.Logger) (*Server, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	store, err := NewStore(cfg.SavePath, cfg.BackupPath, cfg.BackupKeep)
	if err != nil {
		return nil, err
	}
	boards, err := NewBoardSystem(filepath.Join(cfg.DataPath, "boards.json"))
	if err != nil {
		return nil, err
	}
	mail, err := NewMailSystem(filepath.Join(cfg.DataPath, "mail.json"))
	if err != nil {
		return nil, err
	}
	registry := NewRegistry(cfg.MaxPlayers)
	channels := NewChannelTable(cfg.MaxChannels, cfg.MaxChannelMembers)
	history := NewHistory(cfg.MaxChatHistory)
	chatLimit := NewLimiter(cfg.ChatCooldown)
	srv := &Server{
		cfg:        cfg,
		world:      world,
		registry:   registry,
		channels:   channels,
		history:    history,
		chatLimit:  chatLimit,
		fightLimit: NewLimiter(cfg.AttackCooldown),
		skillLimit: NewLimiter(cfg.SkillCooldown),
		router:     NewRouter(registry, channels, history, chatLimit, log, cfg.MaxMessageLength),
		store:      store,
		boards:     boards,
		mail:       mail,
		dispatcher: dispatcher,
		log:        log,
		startedAt:  time.Now().UTC(),
	}
	return srv, nil
}

// Accessors used by the command package.

func (s *Server) Config() Config          { return s.cfg }
func (s *Server) World() *World           { return s.world }
func (s *Server) Registry() *Registry     { return s.registry }
func (s *Server) Channels() *ChannelTable { return s.channels }
func (s *Server) Router() *Router         { return s.router }
func (s *Server) History() *History       { return s.history }
func (s *Server) Store() *Store           { return s.store }
func (s *Server) Boards() *BoardSystem    { return s.boards }
func (s *Server) Mail() *MailSystem       { return s.mail }
func (s *Server) AttackLimiter() *Limiter { return s.fightLimit }
func (s *Server) SkillLimiter() *Limiter  { return s.skillLimit }
func (s *Server) Log() *slog.Logger       { return s.log }
func (s *Server) Uptime() time.Duration   { return time.Since(s.startedAt) }

// ListenAndServe accepts TCP connections until the context is cancelled or
// the listener fails permanently. It also runs the world tick loop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	defer ln.Close()
	s.log.Info("server listening", "addr", ln.Addr().String())

	go s.runTicker(ctx)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	err = s.acceptConnections(ctx, ln)
	if ctx.Err() != nil {
		s.shutdown()
		return nil
	}
	return err
}

const (
	acceptBackoffStart = 50 * time.Millisecond
	acceptBackoffMax   = time.Second
)

func (s *Server) acceptConnections(ctx context.Context, ln net.Listener) error {
	backoff := acceptBackoffStart
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isTemporaryAcceptError(err) {
				s.log.Warn("temporary accept error", "error", err, "backoff", backoff)
				time.Sleep(backoff)
				backoff *= 2
				if backoff > acceptBackoffMax {
					backoff = acceptBackoffMax
				}
				continue
			}
			return err
		}
		backoff = acceptBackoffStart
		go s.handleConn(conn)
	}
}

func isTemporaryAcceptError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}

func (s *Server) handleConn(conn net.Conn) {
	session := NewSession(conn, conn.RemoteAddr().String())
	s.HandleSession(session)
}

// HandleSession drives one session from greeting to teardown. It is shared by
// the TCP and WebSocket transports and is exercised directly by tests using
// in-memory pipes.
func (s *Server) HandleSession(session *Session) {
	session.StartOutput()
	defer s.teardown(session)

	s.log.Info("session opened", "remote", session.Remote())
	session.Send(TagSys, welcomeBanner)

	for {
		line, err := session.ReadLine()
		if err != nil {
			return
		}
		if !session.Throttle(time.Now(), s.cfg.CommandCooldown) {
			session.Send(TagErr, "too fast, slow down")
			continue
		}
		if quit := s.dispatcher(s, session, line); quit {
			session.Send(TagSys, farewellLine)
			return
		}
	}
}

// teardown runs exactly once per session: persist the player, drop channel
// membership and presence, and tell the room. A session that never logged in
// only closes its connection.
func (s *Server) teardown(session *Session) {
	defer session.Close()
	p := session.Player()
	if p == nil {
		s.log.Info("session closed", "remote", session.Remote())
		return
	}
	room := s.registry.RoomOf(p)
	if err := s.SavePlayer(p); err != nil {
		s.log.Error("save on disconnect failed", "player", p.Name, "error", err)
	}
	s.channels.LeaveAll(p)
	if _, ok := s.registry.Logout(p.Name); ok {
		s.router.AnnounceRoom(room, p.Name+" fades from the room.", p)
	}
	s.log.Info("session closed", "remote", session.Remote(), "player", p.Name)
}

// CompleteLogin binds a name to the session: restore or create the player,
// claim the name, auto-join the global channel and announce the arrival.
// Callers send their own OK, then the room view and pending mail.
func (s *Server) CompleteLogin(session *Session, name string) (*Player, error) {
	if session.Authenticated() {
		return nil, errors.New("already logged in")
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	var p *Player
	snap, err := s.store.LoadPlayer(name)
	switch {
	case err == nil:
		if _, ok := s.world.Room(snap.Room); !ok {
			snap.Room = s.world.StartRoom()
		}
		p = RestorePlayer(*snap)
	case errors.Is(err, ErrNoSnapshot):
		p = NewPlayer(name, s.world.StartRoom())
	default:
		return nil, err
	}
	p.Session = session

	if err := s.registry.Login(p); err != nil {
		return nil, err
	}
	if _, err := s.channels.Join(p, GlobalChannel); err != nil {
		s.registry.Logout(p.Name)
		return nil, err
	}
	session.BindPlayer(p)

	s.router.AnnounceRoom(p.Room, p.Name+" materialises in the room.", p)
	s.log.Info("player logged in", "player", p.Name, "room", p.Room, "online", s.registry.Count())
	return p, nil
}

// DeliverMail pushes the player's unread mail down the session.
func (s *Server) DeliverMail(session *Session, p *Player) {
	unread, err := s.mail.Unread(p.Name)
	if err != nil {
		s.log.Error("mail delivery failed", "player", p.Name, "error", err)
		return
	}
	if len(unread) == 0 {
		return
	}
	session.Send(TagSys, fmt.Sprintf("you have %d unread message(s)", len(unread)))
	for _, msg := range unread {
		session.Send(TagSeen, fmt.Sprintf("(mail) %s: %s", msg.From, msg.Body))
	}
}

// SendRoomView emits the ROOM, DESC, SEEN and LIST lines describing the
// player's current location.
func (s *Server) SendRoomView(session *Session, p *Player) {
	roomID := s.registry.RoomOf(p)
	room, ok := s.world.Room(roomID)
	if !ok {
		session.Send(TagErr, "you are nowhere")
		return
	}
	session.Send(TagRoom, room.Title)
	session.Send(TagDesc, room.Desc)

	var present []string
	for _, other := range s.registry.Occupants(roomID, p) {
		present = append(present, other.Name)
	}
	for _, id := range room.NPCs {
		if npc, ok := s.world.NPC(id); ok {
			present = append(present, npc.Name)
		}
	}
	for _, id := range room.Monsters {
		if npc, ok := s.world.NPC(id); ok {
			present = append(present, npc.Name)
		}
	}
	if len(present) > 0 {
		session.Send(TagSeen, "here: "+strings.Join(present, ", "))
	}

	exits := make([]string, 0, len(room.Exits))
	for dir := range room.Exits {
		exits = append(exits, dir)
	}
	sort.Strings(exits)
	if len(exits) == 0 {
		session.Send(TagList, "exits: none")
	} else {
		session.Send(TagList, "exits: "+strings.Join(exits, " "))
	}
}

// SavePlayer snapshots one player to disk.
func (s *Server) SavePlayer(p *Player) error {
	return s.store.SavePlayer(p.Snapshot(s.registry.RoomOf(p)))
}

// SaveAll persists every online player, logging failures without stopping.
func (s *Server) SaveAll() {
	for _, p := range s.registry.All(nil) {
		if err := s.SavePlayer(p); err != nil {
			s.log.Error("periodic save failed", "player", p.Name, "error", err)
		}
	}
}

// shutdown persists everyone and closes their sessions.
func (s *Server) shutdown() {
	s.router.Announce("the server is going down")
	for _, p := range s.registry.All(nil) {
		if err := s.SavePlayer(p); err != nil {
			s.log.Error("shutdown save failed", "player", p.Name, "error", err)
		}
		if p.Session != nil {
			p.Session.Close()
		}
	}
	s.log.Info("server stopped", "uptime", s.Uptime().Round(time.Second).String())
}
