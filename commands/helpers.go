package commands

import (
	"strings"

	"TerminalEcho/internal/game"
)

// findMonster resolves a player-supplied token to a hostile NPC in the
// player's current room, matching by id or name, case-insensitively.
func findMonster(ctx *Context, token string) (*game.NPCDef, bool) {
	world := ctx.Server.World()
	roomID := ctx.Server.Registry().RoomOf(ctx.Player)
	room, ok := world.Room(roomID)
	if !ok {
		return nil, false
	}
	want := strings.ToLower(token)
	for _, id := range room.Monsters {
		npc, ok := world.NPC(id)
		if !ok || !npc.Hostile {
			continue
		}
		if strings.ToLower(npc.ID) == want || strings.ToLower(npc.Name) == want {
			return npc, true
		}
	}
	return nil, false
}

// itemName prefers the display name of an item over its raw id.
func itemName(world *game.World, id string) string {
	if def, ok := world.Item(id); ok {
		return def.Name
	}
	return id
}
