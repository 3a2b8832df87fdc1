package commands

import (
	"fmt"
	"sort"
	"strings"

	"TerminalEcho/internal/game"
)

// WorldMap renders a coarse overview of the rooms and their exits, marking
// the player's current position.
var WorldMap = Define(Definition{
	Name:         "MAP",
	Usage:        "MAP",
	Description:  "show the known rooms and their exits",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	world := ctx.Server.World()
	here := ctx.Server.Registry().RoomOf(ctx.Player)

	for _, id := range world.RoomIDs() {
		room, _ := world.Room(id)
		exits := make([]string, 0, len(room.Exits))
		for dir, dest := range room.Exits {
			exits = append(exits, dir+">"+dest)
		}
		sort.Strings(exits)
		marker := " "
		if id == here {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s (%s)", marker, id, room.Title)
		if len(exits) > 0 {
			line += " " + strings.Join(exits, " ")
		}
		ctx.Session.Send(game.TagList, line)
	}
	return false
})
