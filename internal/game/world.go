package game

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// RoomDef is a static location node. Exits use the compass directions
// N/S/E/W. The dynamic occupant set lives in the Registry, not here.
type RoomDef struct {
	ID       string            `yaml:"id" json:"id"`
	Title    string            `yaml:"title" json:"title"`
	Desc     string            `yaml:"desc" json:"desc"`
	Pos      []int             `yaml:"pos,omitempty" json:"pos,omitempty"`
	Exits    map[string]string `yaml:"exits,omitempty" json:"exits,omitempty"`
	NPCs     []string          `yaml:"npcs,omitempty" json:"npcs,omitempty"`
	Monsters []string          `yaml:"monsters,omitempty" json:"monsters,omitempty"`
	Items    []string          `yaml:"items,omitempty" json:"items,omitempty"`
	Features []string          `yaml:"features,omitempty" json:"features,omitempty"`
}

// ItemDef describes an object that can sit in rooms or inventories.
type ItemDef struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Type      string `yaml:"type" json:"type"` // consumable, equipment, key, junk
	Desc      string `yaml:"desc" json:"desc"`
	Value     int    `yaml:"value,omitempty" json:"value,omitempty"`
	Stackable bool   `yaml:"stackable,omitempty" json:"stackable,omitempty"`
	Slot      string `yaml:"slot,omitempty" json:"slot,omitempty"`
	Damage    int    `yaml:"damage,omitempty" json:"damage,omitempty"`
	Defense   int    `yaml:"defense,omitempty" json:"defense,omitempty"`
	Effect    string `yaml:"effect,omitempty" json:"effect,omitempty"` // heal, energize
	Power     int    `yaml:"power,omitempty" json:"power,omitempty"`
}

// NPCDef describes a townsfolk or monster. Monsters carry combat stats.
type NPCDef struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Title   string   `yaml:"title,omitempty" json:"title,omitempty"`
	Room    string   `yaml:"room,omitempty" json:"room,omitempty"`
	Dialog  []string `yaml:"dialog,omitempty" json:"dialog,omitempty"`
	Hostile bool     `yaml:"hostile,omitempty" json:"hostile,omitempty"`
	HP      int      `yaml:"hp,omitempty" json:"hp,omitempty"`
	Damage  int      `yaml:"damage,omitempty" json:"damage,omitempty"`
	Exp     int      `yaml:"exp,omitempty" json:"exp,omitempty"`
	Money   int      `yaml:"money,omitempty" json:"money,omitempty"`
}

// QuestStep is one requirement toward completing a quest.
type QuestStep struct {
	Kind   string `yaml:"kind" json:"kind"` // collect, kill, visit
	Target string `yaml:"target" json:"target"`
	Count  int    `yaml:"count,omitempty" json:"count,omitempty"`
}

// QuestReward is granted once on turn-in.
type QuestReward struct {
	Exp   int            `yaml:"exp,omitempty" json:"exp,omitempty"`
	Money int            `yaml:"money,omitempty" json:"money,omitempty"`
	Items map[string]int `yaml:"items,omitempty" json:"items,omitempty"`
}

// QuestDef is a static quest record.
type QuestDef struct {
	ID         string      `yaml:"id" json:"id"`
	Name       string      `yaml:"name" json:"name"`
	Desc       string      `yaml:"desc" json:"desc"`
	Type       string      `yaml:"type,omitempty" json:"type,omitempty"`
	Steps      []QuestStep `yaml:"steps,omitempty" json:"steps,omitempty"`
	Reward     QuestReward `yaml:"reward,omitempty" json:"reward,omitempty"`
	Repeatable bool        `yaml:"repeatable,omitempty" json:"repeatable,omitempty"`
}

// World holds the immutable static tables. They are populated once before the
// server accepts connections and never mutated afterwards, so lookups need no
// synchronisation.
type World struct {
	rooms  map[string]*RoomDef
	items  map[string]*ItemDef
	npcs   map[string]*NPCDef
	quests map[string]*QuestDef
	start  string
}

func validDirection(dir string) bool {
	switch dir {
	case "N", "S", "E", "W":
		return true
	}
	return false
}

// LoadWorld reads the world tables from the YAML files under dir and
// validates cross references. Any inconsistency is fatal at startup.
func LoadWorld(dir, startRoom string) (*World, error) {
	w := &World{
		rooms:  make(map[string]*RoomDef),
		items:  make(map[string]*ItemDef),
		npcs:   make(map[string]*NPCDef),
		quests: make(map[string]*QuestDef),
		start:  startRoom,
	}

	var rooms []RoomDef
	if err := loadYAML(filepath.Join(dir, "rooms.yml"), &rooms); err != nil {
		return nil, err
	}
	for i := range rooms {
		room := rooms[i]
		if room.ID == "" {
			return nil, fmt.Errorf("rooms.yml contains a room without an id")
		}
		if _, exists := w.rooms[room.ID]; exists {
			return nil, fmt.Errorf("duplicate room id %s", room.ID)
		}
		if room.Exits == nil {
			room.Exits = make(map[string]string)
		}
		w.rooms[room.ID] = &room
	}
	if len(w.rooms) == 0 {
		return nil, fmt.Errorf("no rooms loaded")
	}

	var items []ItemDef
	if err := loadYAML(filepath.Join(dir, "items.yml"), &items); err != nil {
		return nil, err
	}
	for i := range items {
		item := items[i]
		if item.ID == "" {
			return nil, fmt.Errorf("items.yml contains an item without an id")
		}
		if _, exists := w.items[item.ID]; exists {
			return nil, fmt.Errorf("duplicate item id %s", item.ID)
		}
		w.items[item.ID] = &item
	}

	var npcs []NPCDef
	if err := loadYAML(filepath.Join(dir, "npcs.yml"), &npcs); err != nil {
		return nil, err
	}
	for i := range npcs {
		npc := npcs[i]
		if npc.ID == "" {
			return nil, fmt.Errorf("npcs.yml contains an npc without an id")
		}
		if _, exists := w.npcs[npc.ID]; exists {
			return nil, fmt.Errorf("duplicate npc id %s", npc.ID)
		}
		if npc.Hostile && npc.HP <= 0 {
			npc.HP = 20
		}
		w.npcs[npc.ID] = &npc
	}

	var quests []QuestDef
	if err := loadYAML(filepath.Join(dir, "quests.yml"), &quests); err != nil {
		return nil, err
	}
	for i := range quests {
		quest := quests[i]
		if quest.ID == "" {
			return nil, fmt.Errorf("quests.yml contains a quest without an id")
		}
		if _, exists := w.quests[quest.ID]; exists {
			return nil, fmt.Errorf("duplicate quest id %s", quest.ID)
		}
		w.quests[quest.ID] = &quest
	}

	if err := w.validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// NewWorldWithRooms constructs a world from in-memory tables, primarily for
// tests.
func NewWorldWithRooms(rooms map[string]*RoomDef, start string) *World {
	w := &World{
		rooms:  rooms,
		items:  make(map[string]*ItemDef),
		npcs:   make(map[string]*NPCDef),
		quests: make(map[string]*QuestDef),
		start:  start,
	}
	for _, room := range rooms {
		if room.Exits == nil {
			room.Exits = make(map[string]string)
		}
	}
	return w
}

// AddItemDef registers an item definition on a test world.
func (w *World) AddItemDef(item *ItemDef) { w.items[item.ID] = item }

// AddNPCDef registers an NPC definition on a test world.
func (w *World) AddNPCDef(npc *NPCDef) { w.npcs[npc.ID] = npc }

// AddQuestDef registers a quest definition on a test world.
func (w *World) AddQuestDef(quest *QuestDef) { w.quests[quest.ID] = quest }

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (w *World) validate() error {
	if _, ok := w.rooms[w.start]; !ok {
		return fmt.Errorf("start room %s not found", w.start)
	}
	for id, room := range w.rooms {
		for dir, target := range room.Exits {
			if !validDirection(dir) {
				return fmt.Errorf("room %s has invalid exit direction %s", id, dir)
			}
			if _, ok := w.rooms[target]; !ok {
				return fmt.Errorf("room %s exit %s leads to unknown room %s", id, dir, target)
			}
		}
		for _, itemID := range room.Items {
			if _, ok := w.items[itemID]; !ok {
				return fmt.Errorf("room %s references unknown item %s", id, itemID)
			}
		}
		refs := make([]string, 0, len(room.NPCs)+len(room.Monsters))
		refs = append(refs, room.NPCs...)
		refs = append(refs, room.Monsters...)
		for _, npcID := range refs {
			if _, ok := w.npcs[npcID]; !ok {
				return fmt.Errorf("room %s references unknown npc %s", id, npcID)
			}
		}
	}
	for id, quest := range w.quests {
		for _, step := range quest.Steps {
			switch step.Kind {
			case "collect":
				if _, ok := w.items[step.Target]; !ok {
					return fmt.Errorf("quest %s collects unknown item %s", id, step.Target)
				}
			case "kill":
				if _, ok := w.npcs[step.Target]; !ok {
					return fmt.Errorf("quest %s targets unknown npc %s", id, step.Target)
				}
			case "visit":
				if _, ok := w.rooms[step.Target]; !ok {
					return fmt.Errorf("quest %s visits unknown room %s", id, step.Target)
				}
			default:
				return fmt.Errorf("quest %s has unknown step kind %s", id, step.Kind)
			}
		}
		for itemID := range quest.Reward.Items {
			if _, ok := w.items[itemID]; !ok {
				return fmt.Errorf("quest %s rewards unknown item %s", id, itemID)
			}
		}
	}
	return nil
}

// Room looks up a room by id.
func (w *World) Room(id string) (*RoomDef, bool) {
	room, ok := w.rooms[id]
	return room, ok
}

// Item looks up an item by id.
func (w *World) Item(id string) (*ItemDef, bool) {
	item, ok := w.items[id]
	return item, ok
}

// NPC looks up an NPC by id.
func (w *World) NPC(id string) (*NPCDef, bool) {
	npc, ok := w.npcs[id]
	return npc, ok
}

// Quest looks up a quest by id.
func (w *World) Quest(id string) (*QuestDef, bool) {
	quest, ok := w.quests[id]
	return quest, ok
}

// StartRoom is where new players spawn.
func (w *World) StartRoom() string { return w.start }

// RoomIDs returns every room id in sorted order.
func (w *World) RoomIDs() []string {
	ids := make([]string, 0, len(w.rooms))
	for id := range w.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// QuestIDs returns every quest id in sorted order.
func (w *World) QuestIDs() []string {
	ids := make([]string, 0, len(w.quests))
	for id := range w.quests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
