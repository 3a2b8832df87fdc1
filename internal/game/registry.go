package game

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrAlreadyOnline rejects a second login for a live name.
	ErrAlreadyOnline = errors.New("that name is already online")
	// ErrServerFull rejects logins past the configured player ceiling.
	ErrServerFull = errors.New("the server is full")
	// ErrOffline reports a presence lookup that found nobody.
	ErrOffline = errors.New("player is not online")
)

// Registry is the shared presence table: online players indexed by name and
// the occupant set of every room. All mutation happens under one mutex so a
// join, leave or move is atomic with respect to concurrent readers — a player
// is never in two occupant sets, or none, mid-operation.
type Registry struct {
	mu         sync.RWMutex
	players    map[string]*Player
	occupants  map[string]map[string]*Player
	maxPlayers int
}

// NewRegistry builds an empty presence table.
func NewRegistry(maxPlayers int) *Registry {
	return &Registry{
		players:    make(map[string]*Player),
		occupants:  make(map[string]map[string]*Player),
		maxPlayers: maxPlayers,
	}
}

// Login inserts the player, enforcing name uniqueness and the player
// ceiling, and seats them in their room's occupant set.
func (r *Registry) Login(p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.players[p.Name]; taken {
		return ErrAlreadyOnline
	}
	if len(r.players) >= r.maxPlayers {
		return ErrServerFull
	}
	r.players[p.Name] = p
	r.seatLocked(p, p.Room)
	return nil
}

// Logout removes the player from the presence table and its room. It
// reports whether the name was present, making teardown idempotent.
func (r *Registry) Logout(name string) (*Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[name]
	if !ok {
		return nil, false
	}
	delete(r.players, name)
	r.unseatLocked(p)
	return p, true
}

func (r *Registry) seatLocked(p *Player, room string) {
	set, ok := r.occupants[room]
	if !ok {
		set = make(map[string]*Player)
		r.occupants[room] = set
	}
	set[p.Name] = p
	p.Room = room
}

func (r *Registry) unseatLocked(p *Player) {
	if set, ok := r.occupants[p.Room]; ok {
		delete(set, p.Name)
		if len(set) == 0 {
			delete(r.occupants, p.Room)
		}
	}
}

// Move relocates an online player between rooms in one atomic step.
func (r *Registry) Move(p *Player, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[p.Name]; !ok {
		return fmt.Errorf("%s: %w", p.Name, ErrOffline)
	}
	r.unseatLocked(p)
	r.seatLocked(p, to)
	return nil
}

// Player looks up an online player by exact name.
func (r *Registry) Player(name string) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[name]
	return p, ok
}

// RoomOf reads the player's current room under the registry lock.
func (r *Registry) RoomOf(p *Player) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return p.Room
}

// Occupants snapshots the players in a room, optionally excluding one.
func (r *Registry) Occupants(room string, except *Player) []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.occupants[room]
	out := make([]*Player, 0, len(set))
	for _, p := range set {
		if p == except {
			continue
		}
		out = append(out, p)
	}
	return out
}

// All snapshots every online player, optionally excluding one.
func (r *Registry) All(except *Player) []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		if p == except {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Count reports how many players are online.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
