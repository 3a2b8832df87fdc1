package commands

import (
	"errors"
	"time"

	"TerminalEcho/internal/game"
)

var Tell = Define(Definition{
	Name:         "TELL",
	Usage:        "TELL <player> <message>",
	Description:  "whisper to one player anywhere in the world",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) < 2 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	target := ctx.Args[0]
	text := game.JoinArgs(ctx.Args[1:])

	err := ctx.Server.Router().Tell(ctx.Player, target, text, time.Now())
	if err != nil {
		if errors.Is(err, game.ErrOffline) {
			ctx.Err("%s is not online", target)
			return false
		}
		sendChatError(ctx, err)
		return false
	}
	ctx.OK("whispered to %s", target)
	return false
})
