package game

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrChatCooldown rejects chat sent inside the per-player cooldown window.
	ErrChatCooldown = errors.New("you are talking too fast")
	// ErrMessageTooLong rejects chat past the configured length ceiling.
	ErrMessageTooLong = errors.New("message too long")
	// ErrEmptyMessage rejects chat with no content after normalisation.
	ErrEmptyMessage = errors.New("nothing to say")
)

// ChatKind classifies a routed message.
type ChatKind string

const (
	ChatRoom    ChatKind = "room"
	ChatChannel ChatKind = "channel"
	ChatPrivate ChatKind = "private"
	ChatEmote   ChatKind = "emote"
)

// ChatMessage is one routed chat event, kept in the history ring.
type ChatMessage struct {
	ID      string
	Kind    ChatKind
	Sender  string
	Target  string // room id, channel name or recipient name
	Content string
	SentAt  time.Time
}

// History is a bounded ring of recent chat messages. Oldest entries are
// evicted once the cap is reached.
type History struct {
	mu      sync.Mutex
	entries []ChatMessage
	max     int
}

// NewHistory builds an empty ring with the given capacity.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{max: max}
}

// Add appends a message, evicting the oldest past the cap.
func (h *History) Add(msg ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, msg)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Recent returns up to n newest messages, oldest first.
func (h *History) Recent(n int) []ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]ChatMessage, n)
	copy(out, h.entries[len(h.entries)-n:])
	return out
}

// Len reports how many messages the ring holds.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Router resolves a chat message to its audience and fans it out. Delivery is
// best effort: a full or closed session is skipped and logged, never waited
// on. The audience is whoever qualifies at the moment of the send.
type Router struct {
	registry *Registry
	channels *ChannelTable
	history  *History
	limiter  *Limiter
	log      *slog.Logger
	maxLen   int
}

// NewRouter wires the router to the shared presence and channel tables.
func NewRouter(registry *Registry, channels *ChannelTable, history *History, limiter *Limiter, log *slog.Logger, maxLen int) *Router {
	return &Router{
		registry: registry,
		channels: channels,
		history:  history,
		limiter:  limiter,
		log:      log,
		maxLen:   maxLen,
	}
}

func (r *Router) prepare(sender *Player, text string, now time.Time) (string, error) {
	text = NormalizeText(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	if len(text) > r.maxLen {
		return "", ErrMessageTooLong
	}
	if !r.limiter.Allow(sender.Name, now) {
		return "", ErrChatCooldown
	}
	return text, nil
}

func (r *Router) record(kind ChatKind, sender *Player, target, text string, now time.Time) {
	r.history.Add(ChatMessage{
		ID:      uuid.NewString(),
		Kind:    kind,
		Sender:  sender.Name,
		Target:  target,
		Content: text,
		SentAt:  now,
	})
}

func (r *Router) deliver(audience []*Player, line string) {
	for _, p := range audience {
		sess := p.Session
		if sess == nil {
			continue
		}
		if !sess.Queue(line) {
			r.log.Warn("chat delivery skipped", "player", p.Name)
		}
	}
}

// SayRoom delivers room-scoped chat to everyone else in the sender's room.
func (r *Router) SayRoom(sender *Player, text string, now time.Time) error {
	text, err := r.prepare(sender, text, now)
	if err != nil {
		return err
	}
	room := r.registry.RoomOf(sender)
	r.record(ChatRoom, sender, room, text, now)
	line := FormatLine(TagSeen, fmt.Sprintf("%s says: %s", sender.Name, text))
	r.deliver(r.registry.Occupants(room, sender), line)
	return nil
}

// SayChannel delivers channel-scoped chat to every other member. Sends to the
// global channel reach everyone online since all players are members.
func (r *Router) SayChannel(sender *Player, channel, text string, now time.Time) error {
	canonical, err := CanonicalChannelName(channel)
	if err != nil {
		return err
	}
	if !r.channels.IsMember(canonical, sender.Name) {
		return ErrNotMember
	}
	text, err = r.prepare(sender, text, now)
	if err != nil {
		return err
	}
	audience, member := r.channels.Members(canonical, sender)
	if !member {
		return ErrNotMember
	}
	r.record(ChatChannel, sender, canonical, text, now)
	line := FormatLine(TagSeen, fmt.Sprintf("[%s] %s: %s", canonical, sender.Name, text))
	r.deliver(audience, line)
	return nil
}

// Tell delivers a private message to one online player.
func (r *Router) Tell(sender *Player, targetName, text string, now time.Time) error {
	target, ok := r.registry.Player(targetName)
	if !ok {
		return fmt.Errorf("%s: %w", targetName, ErrOffline)
	}
	if target == sender {
		return errors.New("you mutter to yourself")
	}
	text, err := r.prepare(sender, text, now)
	if err != nil {
		return err
	}
	r.record(ChatPrivate, sender, target.Name, text, now)
	line := FormatLine(TagSeen, fmt.Sprintf("%s whispers: %s", sender.Name, text))
	r.deliver([]*Player{target}, line)
	return nil
}

// Emote delivers a third-person action line to the sender's room. Emotes are
// not chat and bypass the chat cooldown.
func (r *Router) Emote(sender *Player, action string, now time.Time) error {
	action = NormalizeText(action)
	if action == "" {
		return ErrEmptyMessage
	}
	if len(action) > r.maxLen {
		return ErrMessageTooLong
	}
	room := r.registry.RoomOf(sender)
	r.record(ChatEmote, sender, room, action, now)
	line := FormatLine(TagSeen, fmt.Sprintf("%s %s", sender.Name, action))
	r.deliver(r.registry.Occupants(room, sender), line)
	return nil
}

// Announce pushes a SYS line to every online player.
func (r *Router) Announce(text string) {
	line := FormatLine(TagSys, text)
	r.deliver(r.registry.All(nil), line)
}

// AnnounceRoom pushes a SYS line to a room, optionally excluding one player.
func (r *Router) AnnounceRoom(room, text string, except *Player) {
	line := FormatLine(TagSys, text)
	r.deliver(r.registry.Occupants(room, except), line)
}
