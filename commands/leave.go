package commands

import (
	"errors"

	"TerminalEcho/internal/game"
)

var Leave = Define(Definition{
	Name:         "LEAVE",
	Usage:        "LEAVE <channel>",
	Description:  "leave a chat channel",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) != 1 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	if err := ctx.Server.Channels().Leave(ctx.Player, ctx.Args[0]); err != nil {
		if errors.Is(err, game.ErrNotMember) {
			ctx.Err("you are not a member of that channel")
			return false
		}
		ctx.Err("%v", err)
		return false
	}
	name, _ := game.CanonicalChannelName(ctx.Args[0])
	ctx.OK("left %s", name)
	return false
})
