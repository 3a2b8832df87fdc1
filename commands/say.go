package commands

import (
	"errors"
	"strings"
	"time"

	"TerminalEcho/internal/game"
)

// Say handles both room chat and channel chat: a first argument starting
// with # routes the rest of the line to that channel.
var Say = Define(Definition{
	Name:         "SAY",
	Usage:        "SAY [#channel] <message>",
	Description:  "talk to the room, or to a channel",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) == 0 {
		ctx.Err("say what?")
		return false
	}

	router := ctx.Server.Router()
	now := time.Now()

	if strings.HasPrefix(ctx.Args[0], "#") {
		channel := ctx.Args[0]
		text := game.JoinArgs(ctx.Args[1:])
		if err := router.SayChannel(ctx.Player, channel, text, now); err != nil {
			sendChatError(ctx, err)
			return false
		}
		ctx.OK("sent to %s", strings.ToLower(channel))
		return false
	}

	if err := router.SayRoom(ctx.Player, ctx.Arg, now); err != nil {
		sendChatError(ctx, err)
		return false
	}
	ctx.OK("you say: %s", game.NormalizeText(ctx.Arg))
	return false
})

func sendChatError(ctx *Context, err error) {
	switch {
	case errors.Is(err, game.ErrChatCooldown):
		ctx.Err("you are talking too fast")
	case errors.Is(err, game.ErrMessageTooLong):
		ctx.Err("message too long")
	case errors.Is(err, game.ErrEmptyMessage):
		ctx.Err("nothing to say")
	case errors.Is(err, game.ErrNotMember):
		ctx.Err("you are not in that channel, JOIN it first")
	default:
		ctx.Err("%v", err)
	}
}
