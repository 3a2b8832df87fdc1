package game

import (
	"fmt"
	"sync"
	"time"
)

const (
	minNameLen = 2
	maxNameLen = 20

	startingHP    = 100
	startingEP    = 100
	startingMoney = 0
)

// ValidateName enforces the identity rules: 2-20 characters, letters,
// digits, underscore and hyphen only.
func ValidateName(name string) error {
	if len(name) < minNameLen || len(name) > maxNameLen {
		return fmt.Errorf("name must be %d-%d characters", minNameLen, maxNameLen)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return fmt.Errorf("name may only contain letters, digits, underscore and hyphen")
		}
	}
	return nil
}

// Attributes are the base character attributes.
type Attributes struct {
	Str int `json:"str"`
	Agi int `json:"agi"`
	Int int `json:"int"`
	Cha int `json:"cha"`
}

// QuestProgress tracks a player's advancement through one quest.
type QuestProgress struct {
	Accepted  time.Time      `json:"accepted"`
	Counts    map[string]int `json:"counts,omitempty"` // step target -> achieved count
	Completed bool           `json:"completed,omitempty"`
	Tracked   bool           `json:"tracked,omitempty"`
}

// Player is the game identity bound to an authenticated session. Presence
// fields (Room, Session) are guarded by the Registry mutex; the player-local
// fields below are guarded by the player's own mutex so the tick task and the
// owning session can both touch them.
type Player struct {
	Name    string
	Session *Session
	Room    string

	mu        sync.Mutex
	title     string
	level     int
	exp       int
	hp        int
	maxHP     int
	ep        int
	maxEP     int
	money     int
	inventory map[string]int
	equipment map[string]string
	quests    map[string]*QuestProgress
	attrs     Attributes
	createdAt time.Time
	lastLogin time.Time

	// transient combat encounter, never persisted
	target   string
	targetHP int
}

// NewPlayer creates a fresh character in the given room with the original
// starting kit.
func NewPlayer(name, room string) *Player {
	now := time.Now().UTC()
	return &Player{
		Name:      name,
		Room:      room,
		level:     1,
		hp:        startingHP,
		maxHP:     startingHP,
		ep:        startingEP,
		maxEP:     startingEP,
		money:     startingMoney,
		inventory: map[string]int{"paper_tape": 1},
		equipment: make(map[string]string),
		quests:    make(map[string]*QuestProgress),
		attrs:     Attributes{Str: 10, Agi: 10, Int: 10, Cha: 10},
		createdAt: now,
		lastLogin: now,
	}
}

// PlayerSnapshot is the persisted form of a player.
type PlayerSnapshot struct {
	Name      string                    `json:"name"`
	Title     string                    `json:"title,omitempty"`
	Level     int                       `json:"level"`
	Exp       int                       `json:"exp"`
	HP        int                       `json:"hp"`
	MaxHP     int                       `json:"max_hp"`
	EP        int                       `json:"ep"`
	MaxEP     int                       `json:"max_ep"`
	Money     int                       `json:"money"`
	Room      string                    `json:"current_room"`
	Inventory map[string]int            `json:"inventory,omitempty"`
	Equipment map[string]string         `json:"equipment,omitempty"`
	Quests    map[string]*QuestProgress `json:"quests,omitempty"`
	Stats     Attributes                `json:"stats"`
	CreatedAt time.Time                 `json:"created_at"`
	LastLogin time.Time                 `json:"last_login"`
}

// Snapshot captures the player's persistent state. Room is read by the caller
// under the Registry lock and passed in to keep the lock ordering one-way.
func (p *Player) Snapshot(room string) PlayerSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := PlayerSnapshot{
		Name:      p.Name,
		Title:     p.title,
		Level:     p.level,
		Exp:       p.exp,
		HP:        p.hp,
		MaxHP:     p.maxHP,
		EP:        p.ep,
		MaxEP:     p.maxEP,
		Money:     p.money,
		Room:      room,
		Inventory: make(map[string]int, len(p.inventory)),
		Equipment: make(map[string]string, len(p.equipment)),
		Quests:    make(map[string]*QuestProgress, len(p.quests)),
		Stats:     p.attrs,
		CreatedAt: p.createdAt,
		LastLogin: p.lastLogin,
	}
	for id, count := range p.inventory {
		snap.Inventory[id] = count
	}
	for slot, id := range p.equipment {
		snap.Equipment[slot] = id
	}
	for id, progress := range p.quests {
		copied := *progress
		if progress.Counts != nil {
			copied.Counts = make(map[string]int, len(progress.Counts))
			for target, n := range progress.Counts {
				copied.Counts[target] = n
			}
		}
		snap.Quests[id] = &copied
	}
	return snap
}

// RestorePlayer rebuilds a player from a stored snapshot.
func RestorePlayer(snap PlayerSnapshot) *Player {
	p := NewPlayer(snap.Name, snap.Room)
	p.title = snap.Title
	p.level = max(snap.Level, 1)
	p.exp = snap.Exp
	p.maxHP = max(snap.MaxHP, 1)
	p.hp = clamp(snap.HP, 0, p.maxHP)
	p.maxEP = max(snap.MaxEP, 0)
	p.ep = clamp(snap.EP, 0, p.maxEP)
	p.money = max(snap.Money, 0)
	p.inventory = make(map[string]int)
	for id, count := range snap.Inventory {
		if count > 0 {
			p.inventory[id] = count
		}
	}
	p.equipment = make(map[string]string)
	for slot, id := range snap.Equipment {
		p.equipment[slot] = id
	}
	p.quests = make(map[string]*QuestProgress)
	for id, progress := range snap.Quests {
		if progress != nil {
			p.quests[id] = progress
		}
	}
	if snap.Stats != (Attributes{}) {
		p.attrs = snap.Stats
	}
	if !snap.CreatedAt.IsZero() {
		p.createdAt = snap.CreatedAt
	}
	p.lastLogin = time.Now().UTC()
	return p
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Stats returns a display copy of the player's vitals.
func (p *Player) Stats() PlayerSnapshot {
	return p.Snapshot(p.Room)
}

// Title returns the player's display title.
func (p *Player) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// Level returns the current level.
func (p *Player) Level() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// AddItem adds count of an item to the inventory.
func (p *Player) AddItem(id string, count int) {
	if count <= 0 {
		return
	}
	p.mu.Lock()
	p.inventory[id] += count
	p.mu.Unlock()
}

// RemoveItem takes count of an item out of the inventory, deleting the key
// when the count reaches zero. It reports whether the player held enough.
func (p *Player) RemoveItem(id string, count int) bool {
	if count <= 0 {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	have := p.inventory[id]
	if have < count {
		return false
	}
	if have == count {
		delete(p.inventory, id)
	} else {
		p.inventory[id] = have - count
	}
	return true
}

// HasItem reports whether the player holds at least count of an item.
func (p *Player) HasItem(id string, count int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inventory[id] >= count
}

// InventorySnapshot copies the inventory multiset.
func (p *Player) InventorySnapshot() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]int, len(p.inventory))
	for id, count := range p.inventory {
		out[id] = count
	}
	return out
}

// Equip places an item into its slot, returning any previously equipped item
// id so the caller can report the swap. The item must already have been
// removed from the inventory by the caller; the displaced item goes back in.
func (p *Player) Equip(slot, id string) (previous string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	previous = p.equipment[slot]
	p.equipment[slot] = id
	if previous != "" {
		p.inventory[previous]++
	}
	return previous
}

// EquipmentSnapshot copies the equipment slots.
func (p *Player) EquipmentSnapshot() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]string, len(p.equipment))
	for slot, id := range p.equipment {
		out[slot] = id
	}
	return out
}

// Heal restores hit points up to the cap and returns the amount applied.
func (p *Player) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	applied := min(amount, p.maxHP-p.hp)
	p.hp += applied
	return applied
}

// Energize restores energy points up to the cap and returns the amount applied.
func (p *Player) Energize(amount int) int {
	if amount <= 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	applied := min(amount, p.maxEP-p.ep)
	p.ep += applied
	return applied
}

// SpendEP deducts energy, reporting whether the player had enough.
func (p *Player) SpendEP(amount int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ep < amount {
		return false
	}
	p.ep -= amount
	return true
}

// AddMoney credits the player's purse.
func (p *Player) AddMoney(amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	p.money += amount
	p.mu.Unlock()
}

// GainExp adds experience, applying level-ups as in the original rules:
// each level requires level*100 exp and raises the caps.
func (p *Player) GainExp(amount int) (levels int) {
	if amount <= 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exp += amount
	for p.exp >= p.level*100 {
		p.exp -= p.level * 100
		p.level++
		p.maxHP += 10
		p.maxEP += 5
		p.hp = p.maxHP
		p.ep = p.maxEP
		levels++
	}
	return levels
}

// Regen applies one tick of passive recovery. Energy recovers every tick;
// hit points only when hpTick is set (the coarser period).
func (p *Player) Regen(hpTick bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ep < p.maxEP {
		p.ep++
	}
	if hpTick && p.hp < p.maxHP {
		p.hp++
	}
}

// AttackPower derives melee damage from strength and the equipped weapon.
func (p *Player) AttackPower(world *World) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	power := p.attrs.Str / 2
	if power < 1 {
		power = 1
	}
	if weapon, ok := p.equipment["weapon"]; ok {
		if def, found := world.Item(weapon); found {
			power += def.Damage
		}
	}
	return power
}

// Engage starts or continues a fight against the monster, lazily seeding its
// remaining health. Encounters are per-player and never persisted.
func (p *Player) Engage(monster *NPCDef) (remaining int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.target != monster.ID {
		p.target = monster.ID
		p.targetHP = monster.HP
	}
	return p.targetHP
}

// WoundTarget applies damage to the engaged monster and reports whether it
// was defeated. The encounter clears on defeat.
func (p *Player) WoundTarget(id string, damage int) (remaining int, defeated bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.target != id {
		return 0, false
	}
	p.targetHP -= damage
	if p.targetHP <= 0 {
		p.target = ""
		p.targetHP = 0
		return 0, true
	}
	return p.targetHP, false
}

// TakeDamage applies monster damage to the player. HP never drops below one;
// defeat semantics beyond that are out of scope.
func (p *Player) TakeDamage(amount int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if amount >= p.hp {
		amount = p.hp - 1
	}
	if amount < 0 {
		amount = 0
	}
	p.hp -= amount
	return amount
}

// Disengage abandons the current encounter, if any.
func (p *Player) Disengage() {
	p.mu.Lock()
	p.target = ""
	p.targetHP = 0
	p.mu.Unlock()
}

// InCombatWith reports the engaged monster id, if any.
func (p *Player) InCombatWith() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target, p.target != ""
}

// AcceptQuest records a fresh quest progress entry.
func (p *Player) AcceptQuest(id string) *QuestProgress {
	p.mu.Lock()
	defer p.mu.Unlock()
	if progress, ok := p.quests[id]; ok {
		return progress
	}
	progress := &QuestProgress{Accepted: time.Now().UTC(), Counts: make(map[string]int)}
	p.quests[id] = progress
	return progress
}

// QuestState returns the progress entry for a quest, if any.
func (p *Player) QuestState(id string) (*QuestProgress, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	progress, ok := p.quests[id]
	return progress, ok
}

// SetTracked marks one quest as tracked, clearing the flag elsewhere.
func (p *Player) SetTracked(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for qid, progress := range p.quests {
		progress.Tracked = qid == id
	}
}

// RecordQuestEvent advances every accepted, uncompleted quest whose steps
// match the event (kill of a monster id, visit of a room id).
func (p *Player) RecordQuestEvent(world *World, kind, target string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, progress := range p.quests {
		if progress.Completed {
			continue
		}
		quest, ok := world.Quest(id)
		if !ok {
			continue
		}
		for _, step := range quest.Steps {
			if step.Kind != kind || step.Target != target {
				continue
			}
			if progress.Counts == nil {
				progress.Counts = make(map[string]int)
			}
			needed := max(step.Count, 1)
			if progress.Counts[target] < needed {
				progress.Counts[target]++
			}
		}
	}
}

// CompleteQuest consumes collected items and marks the quest done. It reports
// an error naming the first unmet step.
func (p *Player) CompleteQuest(world *World, quest *QuestDef) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	progress, ok := p.quests[quest.ID]
	if !ok {
		return fmt.Errorf("quest %s has not been accepted", quest.ID)
	}
	if progress.Completed {
		return fmt.Errorf("quest %s is already complete", quest.ID)
	}
	for _, step := range quest.Steps {
		needed := max(step.Count, 1)
		switch step.Kind {
		case "collect":
			if p.inventory[step.Target] < needed {
				return fmt.Errorf("still missing %s", step.Target)
			}
		case "kill", "visit":
			if progress.Counts[step.Target] < needed {
				return fmt.Errorf("step %s is not finished", step.Target)
			}
		}
	}
	for _, step := range quest.Steps {
		if step.Kind != "collect" {
			continue
		}
		needed := max(step.Count, 1)
		if p.inventory[step.Target] == needed {
			delete(p.inventory, step.Target)
		} else {
			p.inventory[step.Target] -= needed
		}
	}
	progress.Completed = true
	progress.Tracked = false
	return nil
}

// QuestIDs lists the player's accepted quests in no particular order.
func (p *Player) QuestIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.quests))
	for id := range p.quests {
		ids = append(ids, id)
	}
	return ids
}
