package commands

import (
	"bufio"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"TerminalEcho/internal/game"
)

func newTestServer(t *testing.T) *game.Server {
	t.Helper()
	dir := t.TempDir()
	cfg := game.Config{
		Addr:              ":0",
		DataPath:          dir,
		SavePath:          filepath.Join(dir, "players"),
		BackupPath:        filepath.Join(dir, "backups"),
		BackupKeep:        2,
		TickRate:          10,
		RegenPeriod:       10 * time.Second,
		SaveInterval:      time.Minute,
		ChatCooldown:      time.Second,
		AttackCooldown:    time.Millisecond,
		SkillCooldown:     time.Millisecond,
		MaxPlayers:        10,
		MaxChannels:       20,
		MaxChannelMembers: 50,
		MaxChatHistory:    100,
		MaxMessageLength:  500,
		StartRoom:         "dock",
	}

	rooms := map[string]*game.RoomDef{
		"dock": {
			ID:    "dock",
			Title: "The Dock",
			Desc:  "planks over grey water",
			Exits: map[string]string{"N": "market", "S": "sewer"},
		},
		"market": {
			ID:    "market",
			Title: "Market Square",
			Desc:  "crowded stalls",
			Exits: map[string]string{"S": "dock"},
		},
		"sewer": {
			ID:       "sewer",
			Title:    "Old Sewer",
			Desc:     "dripping brick",
			Exits:    map[string]string{"N": "dock"},
			Monsters: []string{"rat"},
		},
	}
	world := game.NewWorldWithRooms(rooms, "dock")
	world.AddNPCDef(&game.NPCDef{
		ID: "rat", Name: "sewer rat", Hostile: true, HP: 20, Damage: 3, Exp: 35, Money: 2,
	})
	world.AddItemDef(&game.ItemDef{
		ID: "bread", Name: "barley loaf", Type: "consumable", Effect: "heal", Power: 20, Stackable: true,
	})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := game.NewServer(cfg, world, Dispatch, log)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

type testClient struct {
	session *game.Session
	conn    net.Conn
	reader  *bufio.Reader
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	server, client := net.Pipe()
	session := game.NewSession(server, "pipe")
	session.StartOutput()
	t.Cleanup(func() {
		session.Close()
		client.Close()
	})
	return &testClient{session: session, conn: client, reader: bufio.NewReader(client)}
}

func (c *testClient) readLine(t *testing.T) string {
	t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read line: %v", err)
	}
	return strings.TrimRight(line, "\n")
}

// readUntil collects lines until one starts with the prefix.
func (c *testClient) readUntil(t *testing.T, prefix string) []string {
	t.Helper()
	var lines []string
	for {
		line := c.readLine(t)
		lines = append(lines, line)
		if strings.HasPrefix(line, prefix) {
			return lines
		}
	}
}

func login(t *testing.T, srv *game.Server, c *testClient, name string) {
	t.Helper()
	if quit := Dispatch(srv, c.session, "LOGIN "+name); quit {
		t.Fatal("login should not quit")
	}
	lines := c.readUntil(t, "LIST exits:")
	if !strings.HasPrefix(lines[0], "OK welcome, "+name) {
		t.Fatalf("login response = %v", lines)
	}
}

func TestDispatchUnknownVerb(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	if quit := Dispatch(srv, c.session, "FROBNICATE"); quit {
		t.Fatal("unknown verb should not quit")
	}
	line := c.readLine(t)
	if !strings.HasPrefix(line, "ERR unknown command FROBNICATE") {
		t.Fatalf("line = %q", line)
	}

	// the session stays usable
	Dispatch(srv, c.session, "HELP LOGIN")
	if line := c.readLine(t); !strings.HasPrefix(line, "LIST LOGIN") {
		t.Fatalf("help after error = %q", line)
	}
}

func TestDispatchRequiresLogin(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	Dispatch(srv, c.session, "LOOK")
	if line := c.readLine(t); !strings.HasPrefix(line, "ERR login first") {
		t.Fatalf("line = %q", line)
	}
}

func TestLoginAndRoomView(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)
	login(t, srv, c, "alice")

	if room := srv.Registry().RoomOf(mustPlayer(t, srv, "alice")); room != "dock" {
		t.Fatalf("room = %q, want dock", room)
	}
}

func TestDuplicateLoginRejected(t *testing.T) {
	srv := newTestServer(t)
	first := newTestClient(t)
	login(t, srv, first, "alice")

	second := newTestClient(t)
	Dispatch(srv, second.session, "LOGIN alice")
	if line := second.readLine(t); !strings.HasPrefix(line, "ERR that name is already online") {
		t.Fatalf("line = %q", line)
	}
	if second.session.Authenticated() {
		t.Fatal("rejected login must not authenticate the session")
	}
}

func TestBlankInputGetsError(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	for _, line := range []string{"", "   "} {
		if quit := Dispatch(srv, c.session, line); quit {
			t.Fatalf("blank input %q should not quit", line)
		}
		if got := c.readLine(t); got != "ERR say something" {
			t.Fatalf("response to %q = %q", line, got)
		}
	}
}

func TestGoInvalidDirection(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)
	login(t, srv, c, "alice")

	Dispatch(srv, c.session, "GO FOO")
	if line := c.readLine(t); !strings.HasPrefix(line, "ERR usage: GO <N|S|E|W>") {
		t.Fatalf("line = %q", line)
	}
	if room := srv.Registry().RoomOf(mustPlayer(t, srv, "alice")); room != "dock" {
		t.Fatalf("player moved to %q on an invalid direction", room)
	}
}

func TestGoWithoutExit(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)
	login(t, srv, c, "alice")

	Dispatch(srv, c.session, "GO W")
	if line := c.readLine(t); !strings.HasPrefix(line, "ERR no exit to the W") {
		t.Fatalf("line = %q", line)
	}
	if room := srv.Registry().RoomOf(mustPlayer(t, srv, "alice")); room != "dock" {
		t.Fatalf("player moved to %q on a failed GO", room)
	}
}

func TestGoMovesAndDescribes(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)
	login(t, srv, c, "alice")

	Dispatch(srv, c.session, "N")
	lines := c.readUntil(t, "LIST exits:")
	if !strings.HasPrefix(lines[0], "OK you head N") {
		t.Fatalf("lines = %v", lines)
	}
	if room := srv.Registry().RoomOf(mustPlayer(t, srv, "alice")); room != "market" {
		t.Fatalf("room = %q, want market", room)
	}
}

func TestSayFanout(t *testing.T) {
	srv := newTestServer(t)
	alice := newTestClient(t)
	login(t, srv, alice, "alice")
	bob := newTestClient(t)
	login(t, srv, bob, "bob")
	alice.readLine(t) // bob's arrival notice

	Dispatch(srv, alice.session, `"hello all"`)
	if line := alice.readLine(t); !strings.HasPrefix(line, "OK you say: hello all") {
		t.Fatalf("sender ack = %q", line)
	}
	if line := bob.readLine(t); line != "SEEN alice says: hello all" {
		t.Fatalf("bob heard %q", line)
	}
}

func TestChannelRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	alice := newTestClient(t)
	login(t, srv, alice, "alice")
	bob := newTestClient(t)
	login(t, srv, bob, "bob")
	alice.readLine(t) // bob's arrival notice

	Dispatch(srv, bob.session, "GO N") // channels ignore rooms
	bob.readUntil(t, "LIST exits:")
	alice.readLine(t) // bob's departure notice

	Dispatch(srv, alice.session, "JOIN trade")
	if line := alice.readLine(t); line != "OK joined #trade" {
		t.Fatalf("join ack = %q", line)
	}
	Dispatch(srv, bob.session, "JOIN #trade")
	bob.readLine(t)

	Dispatch(srv, alice.session, "SAY #trade selling rope")
	if line := alice.readLine(t); line != "OK sent to #trade" {
		t.Fatalf("sender ack = %q", line)
	}
	if line := bob.readLine(t); line != "SEEN [#trade] alice: selling rope" {
		t.Fatalf("bob heard %q", line)
	}

	Dispatch(srv, bob.session, "LEAVE #trade")
	if line := bob.readLine(t); line != "OK left #trade" {
		t.Fatalf("leave ack = %q", line)
	}
	Dispatch(srv, bob.session, "LEAVE #trade")
	if line := bob.readLine(t); !strings.HasPrefix(line, "ERR you are not a member") {
		t.Fatalf("double leave = %q", line)
	}
}

func TestAttackResolvesCombat(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)
	login(t, srv, c, "carl")

	Dispatch(srv, c.session, "GO S")
	c.readUntil(t, "LIST exits:")

	time.Sleep(2 * time.Millisecond) // clear the attack cooldown
	Dispatch(srv, c.session, "ATTACK rat")
	if line := c.readLine(t); !strings.HasPrefix(line, "OK you hit sewer rat for 5") {
		t.Fatalf("attack line = %q", line)
	}
	if line := c.readLine(t); !strings.HasPrefix(line, "SEEN sewer rat strikes back") {
		t.Fatalf("counter line = %q", line)
	}

	p := mustPlayer(t, srv, "carl")
	if _, fighting := p.InCombatWith(); !fighting {
		t.Fatal("player should be engaged")
	}

	Dispatch(srv, c.session, "FLEE")
	lines := c.readUntil(t, "LIST exits:")
	if !strings.HasPrefix(lines[0], "OK you flee N") {
		t.Fatalf("flee lines = %v", lines)
	}
	if _, fighting := p.InCombatWith(); fighting {
		t.Fatal("flee should disengage")
	}
	if room := srv.Registry().RoomOf(p); room != "dock" {
		t.Fatalf("flee left the player in %q, want dock", room)
	}
}

func TestUseConsumable(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)
	login(t, srv, c, "alice")

	p := mustPlayer(t, srv, "alice")
	p.TakeDamage(30)
	p.AddItem("bread", 1)

	Dispatch(srv, c.session, "USE bread")
	if line := c.readLine(t); !strings.HasPrefix(line, "OK you use barley loaf and recover 20 hp") {
		t.Fatalf("use line = %q", line)
	}
	if p.HasItem("bread", 1) {
		t.Fatal("consumable should be gone")
	}
}

func TestQuitTerminates(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	if quit := Dispatch(srv, c.session, "QUIT"); !quit {
		t.Fatal("QUIT should request termination")
	}
	if line := c.readLine(t); line != "OK goodbye" {
		t.Fatalf("line = %q", line)
	}
}

func mustPlayer(t *testing.T, srv *game.Server, name string) *game.Player {
	t.Helper()
	p, ok := srv.Registry().Player(name)
	if !ok {
		t.Fatalf("player %s not online", name)
	}
	return p
}
