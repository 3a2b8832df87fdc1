package commands

import (
	"time"

	"TerminalEcho/internal/game"
)

var Emote = Define(Definition{
	Name:         "EMOTE",
	Usage:        "EMOTE <action>",
	Description:  "perform a visible action",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if ctx.Arg == "" {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	if err := ctx.Server.Router().Emote(ctx.Player, ctx.Arg, time.Now()); err != nil {
		sendChatError(ctx, err)
		return false
	}
	ctx.OK("you %s", game.NormalizeText(ctx.Arg))
	return false
})
