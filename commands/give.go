package commands

import (
	"strconv"

	"TerminalEcho/internal/game"
)

var Give = Define(Definition{
	Name:         "GIVE",
	Usage:        "GIVE <player> <item> [count]",
	Description:  "hand an item to someone in the same room",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) < 2 || len(ctx.Args) > 3 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	targetName, itemID := ctx.Args[0], ctx.Args[1]
	count := 1
	if len(ctx.Args) == 3 {
		n, err := strconv.Atoi(ctx.Args[2])
		if err != nil || n < 1 {
			ctx.Err("count must be a positive number")
			return false
		}
		count = n
	}

	registry := ctx.Server.Registry()
	target, ok := registry.Player(targetName)
	if !ok {
		ctx.Err("%s is not online", targetName)
		return false
	}
	if target == ctx.Player {
		ctx.Err("you already have it")
		return false
	}
	if registry.RoomOf(target) != registry.RoomOf(ctx.Player) {
		ctx.Err("%s is not here", target.Name)
		return false
	}

	def, ok := ctx.Server.World().Item(itemID)
	if !ok {
		ctx.Err("no such item %s", itemID)
		return false
	}
	if !ctx.Player.RemoveItem(itemID, count) {
		ctx.Err("you are not carrying that many %s", def.Name)
		return false
	}
	target.AddItem(itemID, count)

	if target.Session != nil {
		target.Session.Send(game.TagSeen, ctx.Player.Name+" gives you "+def.Name)
	}
	ctx.OK("you give %s to %s", def.Name, target.Name)
	return false
})
