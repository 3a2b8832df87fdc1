package commands

import (
	"sort"

	"TerminalEcho/internal/game"
)

type inventoryEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var Inventory = Define(Definition{
	Name:         "INV",
	Aliases:      []string{"INVENTORY"},
	Usage:        "INV",
	Description:  "list what you are carrying",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	world := ctx.Server.World()
	held := ctx.Player.InventorySnapshot()

	entries := make([]inventoryEntry, 0, len(held))
	for id, count := range held {
		entry := inventoryEntry{ID: id, Name: id, Count: count}
		if def, ok := world.Item(id); ok {
			entry.Name = def.Name
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	ctx.Session.SendJSON(game.TagItem, entries)
	return false
})
