package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"TerminalEcho/internal/game"
)

// Definition describes a single command's metadata.
type Definition struct {
	Name         string
	Aliases      []string
	Usage        string
	Description  string
	RequiresAuth bool
}

// Handler executes a command.
// Returning true indicates the connection should terminate.
type Handler func(*Context) bool

// Command couples metadata with the executable handler.
type Command struct {
	Definition
	Handler Handler
}

// Context provides the runtime data available to a command handler.
type Context struct {
	Server  *game.Server
	Session *game.Session
	Player  *game.Player
	Verb    string
	Args    []string
	Arg     string
	Command *Command
}

// OK sends a success acknowledgement for the command.
func (ctx *Context) OK(format string, args ...any) {
	ctx.Session.Send(game.TagOK, fmt.Sprintf(format, args...))
}

// Err sends an error line; the session stays usable.
func (ctx *Context) Err(format string, args ...any) {
	ctx.Session.Send(game.TagErr, fmt.Sprintf(format, args...))
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Command)
	ordered    []*Command
)

// Define registers a new command using the provided definition and handler.
// It panics when metadata is incomplete or duplicates an existing command.
func Define(def Definition, handler Handler) *Command {
	if handler == nil {
		panic("commands: handler must not be nil")
	}
	if strings.TrimSpace(def.Name) == "" {
		panic("commands: command must have a name")
	}

	cmd := &Command{Definition: def, Handler: handler}

	registryMu.Lock()
	defer registryMu.Unlock()

	registerName := func(name string) {
		key := strings.ToUpper(name)
		if _, exists := registry[key]; exists {
			panic(fmt.Sprintf("commands: duplicate registration for %q", name))
		}
		registry[key] = cmd
	}

	registerName(def.Name)
	for _, alias := range def.Aliases {
		if strings.TrimSpace(alias) == "" {
			continue
		}
		registerName(alias)
	}

	ordered = append(ordered, cmd)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})

	return cmd
}

// All returns the registered commands sorted by primary name.
func All() []*Command {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]*Command, len(ordered))
	copy(out, ordered)
	return out
}

// Find looks up a command by name or alias.
func Find(name string) (*Command, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	cmd, ok := registry[strings.ToUpper(name)]
	return cmd, ok
}

// Dispatch parses the input line, looks up the command, and executes it. A
// handler panic is contained to the offending command: the client gets a
// generic error and the session stays up.
func Dispatch(srv *game.Server, session *game.Session, line string) (quit bool) {
	verb, args := game.ParseCommand(line)
	if verb == "" {
		session.Send(game.TagErr, "say something")
		return false
	}

	cmd, ok := Find(verb)
	if !ok {
		session.Send(game.TagErr, "unknown command "+verb+", try HELP")
		return false
	}
	if cmd.RequiresAuth && !session.Authenticated() {
		session.Send(game.TagErr, "login first: LOGIN <name>")
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			srv.Log().Error("command panicked", "verb", cmd.Name, "panic", r)
			session.Send(game.TagErr, "something went wrong")
			quit = false
		}
	}()

	ctx := &Context{
		Server:  srv,
		Session: session,
		Player:  session.Player(),
		Verb:    verb,
		Args:    args,
		Arg:     game.JoinArgs(args),
		Command: cmd,
	}
	return cmd.Handler(ctx)
}
