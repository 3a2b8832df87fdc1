package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// GlobalChannel is the built-in channel every player joins at login. Sending
// to it reaches every connected player.
const GlobalChannel = "#global"

var (
	// ErrNotMember rejects channel operations by non-members.
	ErrNotMember = errors.New("you are not a member of that channel")
	// ErrChannelLimit rejects channel creation past the ceiling.
	ErrChannelLimit = errors.New("no more channels may be created")
	// ErrMemberLimit rejects joins past the per-channel ceiling.
	ErrMemberLimit = errors.New("that channel is full")
)

// Channel is a named, joinable chat scope.
type Channel struct {
	Name        string
	Description string
	CreatedAt   time.Time
	members     map[string]*Player
}

// ChannelTable owns every channel and its member set. One mutex guards the
// table; membership is kept symmetric with each player's own channel list by
// doing both sides of a join or leave under it.
type ChannelTable struct {
	mu          sync.Mutex
	channels    map[string]*Channel
	memberships map[string]map[string]bool // player name -> channel names
	maxChannels int
	maxMembers  int
}

// NewChannelTable builds the table with the built-in global channel already
// present; the ceiling counts it.
func NewChannelTable(maxChannels, maxMembers int) *ChannelTable {
	t := &ChannelTable{
		channels:    make(map[string]*Channel),
		memberships: make(map[string]map[string]bool),
		maxChannels: maxChannels,
		maxMembers:  maxMembers,
	}
	t.channels[GlobalChannel] = &Channel{
		Name:        GlobalChannel,
		Description: "the city-wide wire",
		CreatedAt:   time.Now().UTC(),
		members:     make(map[string]*Player),
	}
	return t
}

// CanonicalChannelName normalises a channel token: the # prefix is added
// when missing and the name is lowercased.
func CanonicalChannelName(name string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(name))
	trimmed = strings.TrimPrefix(trimmed, "#")
	if trimmed == "" {
		return "", fmt.Errorf("channel name must not be empty")
	}
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return "", fmt.Errorf("channel name may only contain letters, digits, underscore and hyphen")
		}
	}
	return "#" + trimmed, nil
}

// Join adds the player to the channel, creating it lazily. The global
// channel ignores the member ceiling so login can never fail on it.
func (t *ChannelTable) Join(p *Player, name string) (*Channel, error) {
	canonical, err := CanonicalChannelName(name)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.channels[canonical]
	if !ok {
		if len(t.channels) >= t.maxChannels {
			return nil, ErrChannelLimit
		}
		ch = &Channel{
			Name:        canonical,
			Description: "channel " + canonical,
			CreatedAt:   time.Now().UTC(),
			members:     make(map[string]*Player),
		}
		t.channels[canonical] = ch
	}
	if canonical != GlobalChannel && len(ch.members) >= t.maxMembers {
		if _, already := ch.members[p.Name]; !already {
			return nil, ErrMemberLimit
		}
	}
	ch.members[p.Name] = p
	joined, ok := t.memberships[p.Name]
	if !ok {
		joined = make(map[string]bool)
		t.memberships[p.Name] = joined
	}
	joined[canonical] = true
	return ch, nil
}

// Leave removes the player from the channel. Leaving a channel the player
// never joined is an error, not a silent no-op.
func (t *ChannelTable) Leave(p *Player, name string) error {
	canonical, err := CanonicalChannelName(name)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.channels[canonical]
	if !ok {
		return ErrNotMember
	}
	if _, member := ch.members[p.Name]; !member {
		return ErrNotMember
	}
	delete(ch.members, p.Name)
	if joined, ok := t.memberships[p.Name]; ok {
		delete(joined, canonical)
		if len(joined) == 0 {
			delete(t.memberships, p.Name)
		}
	}
	return nil
}

// LeaveAll removes the player from every channel and returns the names left,
// used by session teardown.
func (t *ChannelTable) LeaveAll(p *Player) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	joined := t.memberships[p.Name]
	names := make([]string, 0, len(joined))
	for name := range joined {
		if ch, ok := t.channels[name]; ok {
			delete(ch.members, p.Name)
		}
		names = append(names, name)
	}
	delete(t.memberships, p.Name)
	sort.Strings(names)
	return names
}

// Members snapshots the channel's members, optionally excluding one.
// The bool reports whether the sender is a member at all.
func (t *ChannelTable) Members(name string, except *Player) ([]*Player, bool) {
	canonical, err := CanonicalChannelName(name)
	if err != nil {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.channels[canonical]
	if !ok {
		return nil, false
	}
	if except != nil {
		if _, member := ch.members[except.Name]; !member {
			return nil, false
		}
	}
	out := make([]*Player, 0, len(ch.members))
	for _, p := range ch.members {
		if p == except {
			continue
		}
		out = append(out, p)
	}
	return out, true
}

// IsMember reports channel membership for a player name.
func (t *ChannelTable) IsMember(name, player string) bool {
	canonical, err := CanonicalChannelName(name)
	if err != nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.channels[canonical]
	if !ok {
		return false
	}
	_, member := ch.members[player]
	return member
}

// MembershipsOf lists the channels the player currently belongs to.
func (t *ChannelTable) MembershipsOf(player string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	joined := t.memberships[player]
	names := make([]string, 0, len(joined))
	for name := range joined {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
