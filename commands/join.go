package commands

import (
	"errors"

	"TerminalEcho/internal/game"
)

var Join = Define(Definition{
	Name:         "JOIN",
	Usage:        "JOIN <channel>",
	Description:  "join a chat channel, creating it if needed",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) != 1 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	ch, err := ctx.Server.Channels().Join(ctx.Player, ctx.Args[0])
	switch {
	case err == nil:
	case errors.Is(err, game.ErrChannelLimit):
		ctx.Err("no more channels may be created")
		return false
	case errors.Is(err, game.ErrMemberLimit):
		ctx.Err("that channel is full")
		return false
	default:
		ctx.Err("%v", err)
		return false
	}
	ctx.OK("joined %s", ch.Name)
	return false
})
