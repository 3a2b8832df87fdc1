package commands

import "strings"

var Go = Define(Definition{
	Name:         "GO",
	Usage:        "GO <N|S|E|W>",
	Description:  "move through an exit",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) != 1 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	dir := strings.ToUpper(ctx.Args[0])
	switch dir {
	case "N", "S", "E", "W":
	default:
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}

	registry := ctx.Server.Registry()
	world := ctx.Server.World()
	from := registry.RoomOf(ctx.Player)
	room, ok := world.Room(from)
	if !ok {
		ctx.Err("you are nowhere")
		return false
	}
	dest, ok := room.Exits[dir]
	if !ok {
		ctx.Err("no exit to the %s", dir)
		return false
	}
	if err := registry.Move(ctx.Player, dest); err != nil {
		ctx.Err("%v", err)
		return false
	}

	router := ctx.Server.Router()
	router.AnnounceRoom(from, ctx.Player.Name+" leaves to the "+dir+".", ctx.Player)
	router.AnnounceRoom(dest, ctx.Player.Name+" arrives.", ctx.Player)
	ctx.OK("you head %s", dir)
	ctx.Server.SendRoomView(ctx.Session, ctx.Player)
	ctx.Player.RecordQuestEvent(world, "visit", dest)
	return false
})
