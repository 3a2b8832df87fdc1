package commands

import "math/rand"

// Flee breaks off the fight and bolts through a random exit when one exists.
var Flee = Define(Definition{
	Name:         "FLEE",
	Usage:        "FLEE",
	Description:  "break off the current fight",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if _, fighting := ctx.Player.InCombatWith(); !fighting {
		ctx.Err("you are not fighting anything")
		return false
	}
	ctx.Player.Disengage()

	registry := ctx.Server.Registry()
	router := ctx.Server.Router()
	from := registry.RoomOf(ctx.Player)

	room, ok := ctx.Server.World().Room(from)
	if !ok || len(room.Exits) == 0 {
		ctx.OK("you back away from the fight")
		router.AnnounceRoom(from, ctx.Player.Name+" backs away from the fight.", ctx.Player)
		return false
	}

	dirs := make([]string, 0, len(room.Exits))
	for dir := range room.Exits {
		dirs = append(dirs, dir)
	}
	dir := dirs[rand.Intn(len(dirs))]
	dest := room.Exits[dir]
	if err := registry.Move(ctx.Player, dest); err != nil {
		ctx.Err("%v", err)
		return false
	}

	router.AnnounceRoom(from, ctx.Player.Name+" flees to the "+dir+"!", ctx.Player)
	router.AnnounceRoom(dest, ctx.Player.Name+" stumbles in, out of breath.", ctx.Player)
	ctx.OK("you flee %s", dir)
	ctx.Server.SendRoomView(ctx.Session, ctx.Player)
	ctx.Player.RecordQuestEvent(ctx.Server.World(), "visit", dest)
	return false
})
